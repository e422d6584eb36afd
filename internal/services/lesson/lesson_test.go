package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/models"
	services "github.com/magabrotheeeer/mypedia/internal/services/lesson"
)

// Мок для LessonRepository
type LessonRepoMock struct {
	mock.Mock
}

func (m *LessonRepoMock) CreateLesson(ctx context.Context, lesson models.Lesson) (int, error) {
	args := m.Called(ctx, lesson)
	return args.Int(0), args.Error(1)
}

func (m *LessonRepoMock) GetLesson(ctx context.Context, id int) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *LessonRepoMock) UpdateLesson(ctx context.Context, lesson models.Lesson, id int) (int, error) {
	args := m.Called(ctx, lesson, id)
	return args.Int(0), args.Error(1)
}

func (m *LessonRepoMock) RemoveLesson(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *LessonRepoMock) ListLessons(ctx context.Context, limit, offset int) ([]*models.Lesson, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Lesson), args.Error(1)
}

func (m *LessonRepoMock) ListLessonsForOwner(ctx context.Context, ownerID, limit, offset int) ([]*models.Lesson, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Lesson), args.Error(1)
}

func (m *LessonRepoMock) TouchCourse(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Мок для CourseNotifier
type CourseNotifierMock struct {
	mock.Mock
}

func (m *CourseNotifierMock) NotifyIfStale(ctx context.Context, courseID int) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLessonService_Create(t *testing.T) {
	courseID := 7

	tests := []struct {
		name       string
		principal  models.Principal
		req        models.DummyLesson
		setupMocks func(r *LessonRepoMock, n *CourseNotifierMock)
		wantID     int
		wantErr    error
	}{
		{
			name:      "user creates lesson and course is notified",
			principal: models.Principal{UserID: 10, Role: access.RoleUser},
			req:       models.DummyLesson{Name: "Intro", VideoLink: "https://www.youtube.com/watch?v=abc", CourseID: &courseID},
			setupMocks: func(r *LessonRepoMock, n *CourseNotifierMock) {
				r.On("CreateLesson", mock.Anything, mock.MatchedBy(func(l models.Lesson) bool {
					return l.Name == "Intro" && l.OwnerID != nil && *l.OwnerID == 10
				})).Return(3, nil).Once()
				n.On("NotifyIfStale", mock.Anything, 7).Return(nil).Once()
				r.On("TouchCourse", mock.Anything, 7).Return(nil).Once()
			},
			wantID: 3,
		},
		{
			name:      "lesson without course skips notification",
			principal: models.Principal{UserID: 10, Role: access.RoleUser},
			req:       models.DummyLesson{Name: "Standalone"},
			setupMocks: func(r *LessonRepoMock, _ *CourseNotifierMock) {
				r.On("CreateLesson", mock.Anything, mock.Anything).Return(4, nil).Once()
			},
			wantID: 4,
		},
		{
			name:       "moderator cannot create lessons",
			principal:  models.Principal{UserID: 2, Role: access.RoleModerator},
			req:        models.DummyLesson{Name: "Intro"},
			setupMocks: func(_ *LessonRepoMock, _ *CourseNotifierMock) {},
			wantErr:    access.ErrForbidden,
		},
		{
			name:       "non-youtube link rejected",
			principal:  models.Principal{UserID: 10, Role: access.RoleUser},
			req:        models.DummyLesson{Name: "Intro", VideoLink: "https://vimeo.com/123"},
			setupMocks: func(_ *LessonRepoMock, _ *CourseNotifierMock) {},
			wantErr:    services.ErrInvalidVideoLink,
		},
		{
			name:       "youtube lookalike rejected",
			principal:  models.Principal{UserID: 10, Role: access.RoleUser},
			req:        models.DummyLesson{Name: "Intro", VideoLink: "https://youtube.com.evil.example/watch"},
			setupMocks: func(_ *LessonRepoMock, _ *CourseNotifierMock) {},
			wantErr:    services.ErrInvalidVideoLink,
		},
		{
			name:       "plain http youtube link rejected",
			principal:  models.Principal{UserID: 10, Role: access.RoleUser},
			req:        models.DummyLesson{Name: "Intro", VideoLink: "http://youtube.com/watch?v=x"},
			setupMocks: func(_ *LessonRepoMock, _ *CourseNotifierMock) {},
			wantErr:    services.ErrInvalidVideoLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(LessonRepoMock)
			notifier := new(CourseNotifierMock)
			svc := services.NewLessonService(repo, notifier, discardLogger())

			tt.setupMocks(repo, notifier)

			got, err := svc.Create(context.Background(), tt.principal, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestLessonService_Read(t *testing.T) {
	ownerID := 10
	lesson := &models.Lesson{ID: 1, Name: "Intro", OwnerID: &ownerID}

	tests := []struct {
		name      string
		principal models.Principal
		wantErr   error
	}{
		{
			name:      "owner reads own lesson",
			principal: models.Principal{UserID: 10, Role: access.RoleUser},
		},
		{
			name:      "moderator reads any lesson",
			principal: models.Principal{UserID: 2, Role: access.RoleModerator},
		},
		{
			name:      "foreign lesson forbidden for regular user",
			principal: models.Principal{UserID: 99, Role: access.RoleUser},
			wantErr:   access.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(LessonRepoMock)
			svc := services.NewLessonService(repo, new(CourseNotifierMock), discardLogger())

			repo.On("GetLesson", mock.Anything, 1).Return(lesson, nil).Once()

			got, err := svc.Read(context.Background(), tt.principal, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "Intro", got.Name)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestLessonService_Update(t *testing.T) {
	ownerID := 10
	courseID := 7
	lesson := &models.Lesson{ID: 1, Name: "Intro", OwnerID: &ownerID, CourseID: &courseID}

	t.Run("update keeps existing course and notifies it", func(t *testing.T) {
		repo := new(LessonRepoMock)
		notifier := new(CourseNotifierMock)
		svc := services.NewLessonService(repo, notifier, discardLogger())

		repo.On("GetLesson", mock.Anything, 1).Return(lesson, nil).Once()
		repo.On("UpdateLesson", mock.Anything, mock.MatchedBy(func(l models.Lesson) bool {
			return l.CourseID != nil && *l.CourseID == 7
		}), 1).Return(1, nil).Once()
		notifier.On("NotifyIfStale", mock.Anything, 7).Return(nil).Once()
		repo.On("TouchCourse", mock.Anything, 7).Return(nil).Once()

		count, err := svc.Update(context.Background(),
			models.Principal{UserID: 10, Role: access.RoleUser},
			models.DummyLesson{Name: "Intro v2"}, 1)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)

		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("bad video link rejected before write", func(t *testing.T) {
		repo := new(LessonRepoMock)
		svc := services.NewLessonService(repo, new(CourseNotifierMock), discardLogger())

		repo.On("GetLesson", mock.Anything, 1).Return(lesson, nil).Once()

		_, err := svc.Update(context.Background(),
			models.Principal{UserID: 10, Role: access.RoleUser},
			models.DummyLesson{Name: "Intro", VideoLink: "ftp://example.com/file"}, 1)
		assert.ErrorIs(t, err, services.ErrInvalidVideoLink)

		repo.AssertNotCalled(t, "UpdateLesson", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLessonService_Remove(t *testing.T) {
	ownerID := 10
	lesson := &models.Lesson{ID: 1, Name: "Intro", OwnerID: &ownerID}

	tests := []struct {
		name       string
		principal  models.Principal
		setupMocks func(r *LessonRepoMock)
		wantErr    error
	}{
		{
			name:      "owner removes own lesson",
			principal: models.Principal{UserID: 10, Role: access.RoleUser},
			setupMocks: func(r *LessonRepoMock) {
				r.On("RemoveLesson", mock.Anything, 1).Return(1, nil).Once()
			},
		},
		{
			name:       "moderator cannot remove",
			principal:  models.Principal{UserID: 2, Role: access.RoleModerator},
			setupMocks: func(_ *LessonRepoMock) {},
			wantErr:    access.ErrForbidden,
		},
		{
			name:      "admin removes any lesson",
			principal: models.Principal{UserID: 3, Role: access.RoleAdmin},
			setupMocks: func(r *LessonRepoMock) {
				r.On("RemoveLesson", mock.Anything, 1).Return(1, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(LessonRepoMock)
			svc := services.NewLessonService(repo, new(CourseNotifierMock), discardLogger())

			repo.On("GetLesson", mock.Anything, 1).Return(lesson, nil).Once()
			tt.setupMocks(repo)

			_, err := svc.Remove(context.Background(), tt.principal, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}
