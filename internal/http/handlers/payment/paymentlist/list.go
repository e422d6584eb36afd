// Package paymentlist реализует HTTP-обработчик получения списка платежей
// с фильтрацией по курсу, уроку и способу оплаты и сортировкой по дате.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mypedia/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mypedia/internal/http/pagination"
	"github.com/magabrotheeeer/mypedia/internal/http/response"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/models"
)

// Параметры пагинации списка платежей.
const (
	defaultLimit = 20
	maxLimit     = 100
)

// Handler управляет HTTP-запросами на получение списка платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка платежей.
type Service interface {
	List(ctx context.Context, principal models.Principal, filter models.PaymentFilter, limit, offset int) ([]*models.Payment, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// parseFilter собирает фильтр платежей из query-параметров.
// Сортировка: ordering=payment_date — по возрастанию, -payment_date — по убыванию.
func parseFilter(r *http.Request) models.PaymentFilter {
	var filter models.PaymentFilter
	query := r.URL.Query()

	if raw := query.Get("course"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			filter.CourseID = &id
		}
	}
	if raw := query.Get("lesson"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			filter.LessonID = &id
		}
	}
	if method := query.Get("payment_method"); method != "" {
		filter.PaymentMethod = &method
	}
	if query.Get("ordering") == "-payment_date" {
		filter.OrderDesc = true
	}
	return filter
}

// ServeHTTP godoc
// @Summary Получить список платежей
// @Description Возвращает страницу платежей по фильтру: пользователю — его собственные, персоналу — все.
// @Tags Payments
// @Produce  json
// @Param course query int false "Фильтр по курсу"
// @Param lesson query int false "Фильтр по уроку"
// @Param payment_method query string false "Фильтр по способу оплаты"
// @Param ordering query string false "Сортировка по дате: payment_date или -payment_date"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список платежей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
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
	payments, err := h.service.List(r.Context(), principal, parseFilter(r), page.Limit, page.Offset)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list payments"))
		return
	}

	log.Info("payments listed", slog.Int("count", len(payments)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payments": payments,
	}))
}
