// Package list реализует HTTP-обработчик получения списка курсов с пагинацией.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mypedia/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mypedia/internal/http/pagination"
	"github.com/magabrotheeeer/mypedia/internal/http/response"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/models"
)

// Параметры пагинации списка курсов.
const (
	defaultLimit = 5
	maxLimit     = 100
)

// Handler управляет HTTP-запросами на получение списка курсов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка курсов.
type Service interface {
	List(ctx context.Context, principal models.Principal, limit, offset int) ([]*models.Course, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список курсов
// @Description Возвращает страницу курсов: пользователю — его собственные, персоналу — все.
// @Tags Courses
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 5, максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список курсов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /courses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.GetPrincipal(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	page := pagination.Parse(r, defaultLimit, maxLimit)
	courses, err := h.service.List(r.Context(), principal, page.Limit, page.Offset)
	if err != nil {
		log.Error("failed to list courses", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list courses"))
		return
	}

	log.Info("courses listed", slog.Int("count", len(courses)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"courses": courses,
	}))
}
