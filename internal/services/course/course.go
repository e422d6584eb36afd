// Package services содержит бизнес-логику для управления курсами и кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/models"
)

// StalenessThreshold — минимальный «возраст» курса, при котором его изменение
// считается заметным обновлением и рассылается подписчикам. Более частые
// правки уведомлений не порождают.
const StalenessThreshold = 4 * time.Hour

// CourseRepository определяет методы для работы с курсами в хранилище.
type CourseRepository interface {
	// CreateCourse добавляет новый курс и возвращает его ID.
	CreateCourse(ctx context.Context, course models.Course) (int, error)
	// GetCourse возвращает курс по ID.
	GetCourse(ctx context.Context, id int) (*models.Course, error)
	// GetCourseForOwner возвращает курс только из выборки владельца.
	GetCourseForOwner(ctx context.Context, id, ownerID int) (*models.Course, error)
	// UpdateCourse обновляет курс и возвращает количество изменённых строк.
	UpdateCourse(ctx context.Context, course models.Course, id int) (int, error)
	// RemoveCourse удаляет курс по ID.
	RemoveCourse(ctx context.Context, id int) (int, error)
	// RemoveCourseForOwner удаляет курс только из выборки владельца.
	RemoveCourseForOwner(ctx context.Context, id, ownerID int) (int, error)
	// ListCourses возвращает все курсы с пагинацией.
	ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, error)
	// ListCoursesForOwner возвращает курсы владельца с пагинацией.
	ListCoursesForOwner(ctx context.Context, ownerID, limit, offset int) ([]*models.Course, error)
	// ListCourseLessons возвращает уроки курса.
	ListCourseLessons(ctx context.Context, courseID int) ([]*models.Lesson, error)
	// CountCourseLessons подсчитывает уроки курса.
	CountCourseLessons(ctx context.Context, courseID int) (int, error)
	// IsSubscribed сообщает, подписан ли пользователь на курс.
	IsSubscribed(ctx context.Context, courseID, ownerID int) (bool, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Notifier публикует события обновления курсов в очередь уведомлений.
type Notifier interface {
	PublishCourseUpdated(event models.CourseUpdatedEvent) error
}

// CourseService реализует бизнес-логику работы с курсами: политику доступа,
// кеширование и триггер уведомлений об обновлении.
type CourseService struct {
	repo     CourseRepository
	cache    Cache
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// NewCourseService создает новый экземпляр CourseService.
func NewCourseService(repo CourseRepository, cache Cache, notifier Notifier, log *slog.Logger) *CourseService {
	return &CourseService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Create создает новый курс от имени пользователя. Модераторы управляют
// чужим контентом, но не создают собственный.
func (s *CourseService) Create(ctx context.Context, principal models.Principal, req models.DummyCourse) (int, error) {
	if !principal.Role.CanCreateContent() {
		return 0, access.ErrForbidden
	}

	course := models.Course{
		Name:    req.Name,
		OwnerID: &principal.UserID,
	}
	if req.Preview != "" {
		course.Preview = &req.Preview
	}
	if req.Description != "" {
		course.Description = &req.Description
	}

	id, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new course", slog.Int("id", id))
	return id, nil
}

// Read возвращает курс с уроками и признаком подписки запрашивающего.
// Обычному пользователю чужой курс неотличим от несуществующего.
func (s *CourseService) Read(ctx context.Context, principal models.Principal, id int) (*models.CourseDetail, error) {
	course, err := s.getVisible(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	lessons, err := s.repo.ListCourseLessons(ctx, id)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.repo.IsSubscribed(ctx, id, principal.UserID)
	if err != nil {
		return nil, err
	}

	label := models.NotSubscribedLabel
	if subscribed {
		label = models.SubscribedLabel
	}
	return &models.CourseDetail{
		Course:       *course,
		LessonsCount: len(lessons),
		Lessons:      lessons,
		IsSubscribed: label,
	}, nil
}

// Update обновляет курс, инвалидирует кеш и при достаточной давности
// последнего обновления публикует событие для рассылки подписчикам.
func (s *CourseService) Update(ctx context.Context, principal models.Principal, req models.DummyCourse, id int) (int, error) {
	course, err := s.getVisible(ctx, principal, id)
	if err != nil {
		return 0, err
	}

	updated := models.Course{Name: req.Name}
	if req.Preview != "" {
		updated.Preview = &req.Preview
	}
	if req.Description != "" {
		updated.Description = &req.Description
	}

	count, err := s.repo.UpdateCourse(ctx, updated, id)
	if err != nil {
		return 0, err
	}

	cacheKey := fmt.Sprintf("course:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.maybeNotify(course)
	return count, nil
}

// NotifyIfStale публикует событие обновления курса, если с момента его
// последнего обновления прошло не меньше порога. Вызывается при сохранении
// уроков курса; поднять updated_at после публикации — забота вызывающего.
func (s *CourseService) NotifyIfStale(ctx context.Context, courseID int) error {
	course, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	s.maybeNotify(course)
	return nil
}

func (s *CourseService) maybeNotify(course *models.Course) {
	if s.now().Sub(course.UpdatedAt) < StalenessThreshold {
		return
	}
	event := models.CourseUpdatedEvent{
		CourseID: course.ID,
		Name:     course.Name,
		Occurred: s.now(),
	}
	if err := s.notifier.PublishCourseUpdated(event); err != nil {
		s.log.Error("failed to publish course updated event",
			slog.Int("course_id", course.ID), sl.Err(err))
		return
	}
	s.log.Info("published course updated event", slog.Int("course_id", course.ID))
}

// Remove удаляет курс. Удаление доступно владельцу и админу; модератор
// чужие курсы не удаляет.
func (s *CourseService) Remove(ctx context.Context, principal models.Principal, id int) (int, error) {
	cacheKey := fmt.Sprintf("course:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), sl.Err(err))
	}

	if principal.Role.CanDeleteContent(false) {
		return s.repo.RemoveCourse(ctx, id)
	}
	if principal.Role.Staff() {
		return 0, access.ErrForbidden
	}
	return s.repo.RemoveCourseForOwner(ctx, id, principal.UserID)
}

// List возвращает страницу курсов: обычному пользователю — только его
// собственные, модератору и админу — все.
func (s *CourseService) List(ctx context.Context, principal models.Principal, limit, offset int) ([]*models.Course, error) {
	if principal.Role.Staff() {
		return s.repo.ListCourses(ctx, limit, offset)
	}
	return s.repo.ListCoursesForOwner(ctx, principal.UserID, limit, offset)
}

// getVisible возвращает курс из выборки, видимой запрашивающему.
// Кеширует результат для модераторов и админов, читающих общий каталог.
func (s *CourseService) getVisible(ctx context.Context, principal models.Principal, id int) (*models.Course, error) {
	if !principal.Role.Staff() {
		return s.repo.GetCourseForOwner(ctx, id, principal.UserID)
	}

	var cached *models.Course
	cacheKey := fmt.Sprintf("course:%d", id)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, course, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return course, nil
}
