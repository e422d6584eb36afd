// Package list реализует HTTP-обработчик получения списка уроков с пагинацией.
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

// Параметры пагинации списка уроков.
const (
	defaultLimit = 20
	maxLimit     = 1000
)

// Handler управляет HTTP-запросами на получение списка уроков.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка уроков.
type Service interface {
	List(ctx context.Context, principal models.Principal, limit, offset int) ([]*models.Lesson, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список уроков
// @Description Возвращает страницу уроков: пользователю — его собственные, персоналу — все.
// @Tags Lessons
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 20, максимум 1000)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список уроков"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /lessons [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.list"
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
	lessons, err := h.service.List(r.Context(), principal, page.Limit, page.Offset)
	if err != nil {
		log.Error("failed to list lessons", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list lessons"))
		return
	}

	log.Info("lessons listed", slog.Int("count", len(lessons)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"lessons": lessons,
	}))
}
