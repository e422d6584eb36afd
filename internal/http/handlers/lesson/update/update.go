// Package update реализует HTTP-обработчик обновления урока по ID.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mypedia/internal/http/response"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/models"
	lesson "github.com/magabrotheeeer/mypedia/internal/services/lesson"
	"github.com/magabrotheeeer/mypedia/internal/storage/repository"
)

// Handler управляет HTTP-запросами на обновление уроков.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления урока.
type Service interface {
	Update(ctx context.Context, principal models.Principal, req models.DummyLesson, id int) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить урок
// @Description Обновляет данные урока. Доступно владельцу, модератору и админу.
// @Tags Lessons
// @Accept  json
// @Produce  json
// @Param id path int true "ID урока"
// @Param request body models.DummyLesson true "Новые данные урока"
// @Success 200 {object} map[string]any "Количество изменённых записей"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ссылка на стороннее видео"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Изменение чужого урока недоступно"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /lessons/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.update"
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

	var req models.DummyLesson
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	principal, ok := middlewarectx.GetPrincipal(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.Update(r.Context(), principal, req, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("lesson not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("lesson not found"))
		case errors.Is(err, access.ErrForbidden):
			log.Error("lesson update forbidden", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		case errors.Is(err, lesson.ErrInvalidVideoLink):
			log.Error("invalid video link", slog.String("link", req.VideoLink))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("video link must point to youtube.com"))
		default:
			log.Error("failed to update lesson", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update lesson"))
		}
		return
	}

	log.Info("lesson updated", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated": count,
	}))
}
