// Package services содержит бизнес-логику для управления уроками курсов.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/models"
)

// ErrInvalidVideoLink возвращается, когда ссылка на видео ведет не на youtube.
// Обработчики транслируют её в HTTP 400.
var ErrInvalidVideoLink = errors.New("video link must point to youtube.com")

// LessonRepository определяет методы для работы с уроками в хранилище.
type LessonRepository interface {
	// CreateLesson добавляет новый урок и возвращает его ID.
	CreateLesson(ctx context.Context, lesson models.Lesson) (int, error)
	// GetLesson возвращает урок по ID.
	GetLesson(ctx context.Context, id int) (*models.Lesson, error)
	// UpdateLesson обновляет урок и возвращает количество изменённых строк.
	UpdateLesson(ctx context.Context, lesson models.Lesson, id int) (int, error)
	// RemoveLesson удаляет урок по ID.
	RemoveLesson(ctx context.Context, id int) (int, error)
	// ListLessons возвращает все уроки с пагинацией.
	ListLessons(ctx context.Context, limit, offset int) ([]*models.Lesson, error)
	// ListLessonsForOwner возвращает уроки владельца с пагинацией.
	ListLessonsForOwner(ctx context.Context, ownerID, limit, offset int) ([]*models.Lesson, error)
	// TouchCourse поднимает updated_at курса.
	TouchCourse(ctx context.Context, id int) error
}

// CourseNotifier запускает проверку давности обновления курса и публикацию
// события для подписчиков.
type CourseNotifier interface {
	NotifyIfStale(ctx context.Context, courseID int) error
}

// LessonService реализует бизнес-логику работы с уроками: политику доступа,
// валидацию видеоссылок и триггер уведомлений по курсу.
type LessonService struct {
	repo    LessonRepository
	courses CourseNotifier
	log     *slog.Logger
}

// NewLessonService создает новый экземпляр LessonService.
func NewLessonService(repo LessonRepository, courses CourseNotifier, log *slog.Logger) *LessonService {
	return &LessonService{
		repo:    repo,
		courses: courses,
		log:     log,
	}
}

// validateVideoLink принимает только ссылки, начинающиеся с доверенного
// префикса https://www.youtube.com. Материалы на сторонних ресурсах
// и незащищённые ссылки не допускаются.
func validateVideoLink(link string) error {
	if link == "" {
		return nil
	}
	if !strings.HasPrefix(link, "https://www.youtube.com") {
		return ErrInvalidVideoLink
	}
	return nil
}

// Create создает новый урок от имени пользователя. Модераторы уроки не создают.
func (s *LessonService) Create(ctx context.Context, principal models.Principal, req models.DummyLesson) (int, error) {
	if !principal.Role.CanCreateContent() {
		return 0, access.ErrForbidden
	}
	if err := validateVideoLink(req.VideoLink); err != nil {
		return 0, err
	}

	lesson := models.Lesson{
		Name:     req.Name,
		CourseID: req.CourseID,
		OwnerID:  &principal.UserID,
	}
	if req.Preview != "" {
		lesson.Preview = &req.Preview
	}
	if req.Description != "" {
		lesson.Description = &req.Description
	}
	if req.VideoLink != "" {
		lesson.VideoLink = &req.VideoLink
	}

	id, err := s.repo.CreateLesson(ctx, lesson)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new lesson", slog.Int("id", id))

	if req.CourseID != nil {
		s.notifyCourse(ctx, *req.CourseID)
	}
	return id, nil
}

// Read возвращает урок. Смотреть урок могут владелец, модератор и админ.
func (s *LessonService) Read(ctx context.Context, principal models.Principal, id int) (*models.Lesson, error) {
	lesson, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.Role.CanViewContent(s.isOwner(principal, lesson)) {
		return nil, access.ErrForbidden
	}
	return lesson, nil
}

// Update обновляет урок и запускает триггер уведомления по его курсу.
func (s *LessonService) Update(ctx context.Context, principal models.Principal, req models.DummyLesson, id int) (int, error) {
	lesson, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return 0, err
	}
	if !principal.Role.CanViewContent(s.isOwner(principal, lesson)) {
		return 0, access.ErrForbidden
	}
	if err := validateVideoLink(req.VideoLink); err != nil {
		return 0, err
	}

	updated := models.Lesson{
		Name:     req.Name,
		CourseID: req.CourseID,
	}
	if req.Preview != "" {
		updated.Preview = &req.Preview
	}
	if req.Description != "" {
		updated.Description = &req.Description
	}
	if req.VideoLink != "" {
		updated.VideoLink = &req.VideoLink
	}
	if updated.CourseID == nil {
		updated.CourseID = lesson.CourseID
	}

	count, err := s.repo.UpdateLesson(ctx, updated, id)
	if err != nil {
		return 0, err
	}

	if updated.CourseID != nil {
		s.notifyCourse(ctx, *updated.CourseID)
	}
	return count, nil
}

// Remove удаляет урок. Удаление доступно владельцу и админу.
func (s *LessonService) Remove(ctx context.Context, principal models.Principal, id int) (int, error) {
	lesson, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return 0, err
	}
	if !principal.Role.CanDeleteContent(s.isOwner(principal, lesson)) {
		return 0, access.ErrForbidden
	}
	return s.repo.RemoveLesson(ctx, id)
}

// List возвращает страницу уроков: обычному пользователю — только его
// собственные, модератору и админу — все.
func (s *LessonService) List(ctx context.Context, principal models.Principal, limit, offset int) ([]*models.Lesson, error) {
	if principal.Role.Staff() {
		return s.repo.ListLessons(ctx, limit, offset)
	}
	return s.repo.ListLessonsForOwner(ctx, principal.UserID, limit, offset)
}

func (s *LessonService) isOwner(principal models.Principal, lesson *models.Lesson) bool {
	return lesson.OwnerID != nil && *lesson.OwnerID == principal.UserID
}

// notifyCourse проверяет давность обновления курса, публикует событие
// и поднимает updated_at, чтобы шквал правок не породил шквал писем.
func (s *LessonService) notifyCourse(ctx context.Context, courseID int) {
	if err := s.courses.NotifyIfStale(ctx, courseID); err != nil {
		s.log.Warn("failed to check course staleness", slog.Int("course_id", courseID), sl.Err(err))
		return
	}
	if err := s.repo.TouchCourse(ctx, courseID); err != nil {
		s.log.Warn("failed to touch course", slog.Int("course_id", courseID), sl.Err(err))
	}
}
