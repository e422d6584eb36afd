// Package read реализует HTTP-обработчик получения урока по ID.
//
// В отличие от курсов, чужой урок отвечает явным отказом в доступе,
// а не прячется за "не найдено".
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mypedia/internal/http/response"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/models"
	"github.com/magabrotheeeer/mypedia/internal/storage/repository"
)

// Handler обрабатывает запросы на получение урока по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения урока.
type Service interface {
	Read(ctx context.Context, principal models.Principal, id int) (*models.Lesson, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить урок
// @Description Возвращает урок. Доступно владельцу, модератору и админу.
// @Tags Lessons
// @Produce  json
// @Param id path int true "ID урока"
// @Success 200 {object} map[string]any "Данные урока"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Просмотр чужого урока недоступен"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Router /lessons/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	principal, ok := middlewarectx.GetPrincipal(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	lesson, err := h.service.Read(r.Context(), principal, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("lesson not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("lesson not found"))
		case errors.Is(err, access.ErrForbidden):
			log.Error("lesson read forbidden", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		default:
			log.Error("failed to read lesson", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read lesson"))
		}
		return
	}

	log.Info("lesson read", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(lesson))
}
