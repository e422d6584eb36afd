// Package health реализует проверку живости сервиса и готовности базы данных.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mypedia/internal/http/response"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/storage/repository"
)

// Handler отвечает на запросы проверки состояния сервиса.
type Handler struct {
	log     *slog.Logger
	storage *repository.Storage
}

// New создает новый Handler с переданным логгером и хранилищем.
func New(log *slog.Logger, storage *repository.Storage) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния сервиса
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]any "Сервис работает"
// @Failure 503 {object} response.ErrorResponse "База данных недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := repository.CheckDatabaseReady(h.storage); err != nil {
		h.log.Error("database is not ready", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": "ok",
	}))
}
