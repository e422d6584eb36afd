// Package pagination разбирает параметры limit/offset из строки запроса.
package pagination

import (
	"net/http"
	"strconv"
)

// Page — разобранные параметры страницы.
type Page struct {
	Limit  int
	Offset int
}

// Parse читает limit и offset из query-параметров. Отсутствующий или
// некорректный limit сводится к defaultLimit, превышающий maxLimit — к maxLimit.
func Parse(r *http.Request, defaultLimit, maxLimit int) Page {
	page := Page{Limit: defaultLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			page.Limit = limit
		}
	}
	if page.Limit > maxLimit {
		page.Limit = maxLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
			page.Offset = offset
		}
	}
	return page
}
