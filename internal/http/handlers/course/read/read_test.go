package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mypedia/internal/models"
	"github.com/magabrotheeeer/mypedia/internal/storage/repository"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, principal models.Principal, id int) (*models.CourseDetail, error) {
	args := m.Called(ctx, principal, id)
	if res := args.Get(0); res != nil {
		return res.(*models.CourseDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	principal := models.Principal{UserID: 10, Email: "user@example.com", Role: access.RoleUser}

	tests := []struct {
		name           string
		url            string
		withPrincipal  bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "успешное чтение курса",
			url:           "/courses/123",
			withPrincipal: true,
			setupMock: func(m *MockService) {
				detail := &models.CourseDetail{
					Course:       models.Course{ID: 123, Name: "Go basics"},
					LessonsCount: 2,
					IsSubscribed: models.SubscribedLabel,
				}
				m.On("Read", mock.Anything, principal, 123).Return(detail, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Go basics"`,
		},
		{
			name:          "чужой курс неотличим от несуществующего",
			url:           "/courses/777",
			withPrincipal: true,
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, principal, 777).Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"course not found"`,
		},
		{
			name:           "некорректный id в URL",
			url:            "/courses/abc",
			withPrincipal:  true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode id from url"`,
		},
		{
			name:           "запрос без Principal",
			url:            "/courses/123",
			withPrincipal:  false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:          "ошибка сервиса чтения",
			url:           "/courses/500",
			withPrincipal: true,
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, principal, 500).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not read course"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", strings.TrimPrefix(tt.url, "/courses/"))
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.withPrincipal {
				ctx = context.WithValue(ctx, middlewarectx.PrincipalKey, principal)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
