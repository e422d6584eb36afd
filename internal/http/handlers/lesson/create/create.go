// Package create реализует HTTP-обработчик создания уроков.
//
// Handler принимает JSON-запрос с данными урока, проверяет видеоссылку,
// вызывает бизнес-логику создания урока и возвращает ID созданной записи.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mypedia/internal/http/response"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/models"
	lesson "github.com/magabrotheeeer/mypedia/internal/services/lesson"
)

// Handler управляет HTTP-запросами на создание уроков.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания урока.
type Service interface {
	Create(ctx context.Context, principal models.Principal, req models.DummyLesson) (int, error)
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
// @Summary Создать новый урок
// @Description Создает урок от имени текущего пользователя. Видео принимается только с youtube.com.
// @Tags Lessons
// @Accept  json
// @Produce  json
// @Param request body models.DummyLesson true "Данные нового урока"
// @Success 201 {object} map[string]any "Успешное создание урока"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ссылка на стороннее видео"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Создание уроков недоступно"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /lessons [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	id, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		switch {
		case errors.Is(err, lesson.ErrInvalidVideoLink):
			log.Error("invalid video link", slog.String("link", req.VideoLink))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("video link must point to youtube.com"))
		case errors.Is(err, access.ErrForbidden):
			log.Error("lesson creation forbidden", slog.String("role", string(principal.Role)))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		default:
			log.Error("failed to create lesson", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create lesson"))
		}
		return
	}

	log.Info("lesson created", slog.Int("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
