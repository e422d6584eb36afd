// Package read реализует HTTP-обработчик получения курса по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику чтения
// курса и возвращает курс с уроками и признаком подписки. Чужой курс для
// обычного пользователя неотличим от несуществующего.
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

	"github.com/magabrotheeeer/mypedia/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mypedia/internal/http/response"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/models"
	"github.com/magabrotheeeer/mypedia/internal/storage/repository"
)

// Handler обрабатывает запросы на получение курса по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения курса.
type Service interface {
	Read(ctx context.Context, principal models.Principal, id int) (*models.CourseDetail, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить курс
// @Description Возвращает курс с уроками, их количеством и признаком подписки.
// @Tags Courses
// @Produce  json
// @Param id path int true "ID курса"
// @Success 200 {object} map[string]any "Данные курса"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /courses/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.read"
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

	course, err := h.service.Read(r.Context(), principal, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("course not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("course not found"))
			return
		}
		log.Error("failed to read course", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read course"))
		return
	}

	log.Info("course read", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(course))
}
