// Package paymentcreate реализует HTTP-обработчик создания платежа.
//
// Handler открывает платёжную сессию у провайдера и возвращает ID платежа
// вместе со ссылкой на оплату.
package paymentcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mypedia/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mypedia/internal/http/response"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/models"
	payment "github.com/magabrotheeeer/mypedia/internal/services/payment"
	"github.com/magabrotheeeer/mypedia/internal/storage/repository"
)

// Handler управляет HTTP-запросами на создание платежей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания платежа.
type Service interface {
	Create(ctx context.Context, principal models.Principal, req models.DummyPayment) (int, string, error)
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
// @Summary Создать платеж
// @Description Открывает платёжную сессию и возвращает ID платежа со ссылкой на оплату.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyPayment true "Данные нового платежа"
// @Success 201 {object} map[string]any "Платеж создан, ссылка на оплату"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или платеж без курса и урока"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Курс или урок не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Провайдер недоступен или ошибка сервера"
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPayment
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

	id, link, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrNoTarget):
			log.Error("payment without course and lesson")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment must reference a course or a lesson"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("payment target not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("course or lesson not found"))
		default:
			log.Error("failed to create payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create payment"))
		}
		return
	}

	log.Info("payment created", slog.Int("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":   id,
		"link": link,
	}))
}
