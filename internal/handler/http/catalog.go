package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shinnycodez/Hiba/internal/domain"
	"github.com/shinnycodez/Hiba/internal/service"
	"github.com/shinnycodez/Hiba/pkg/httputil"
)

// CatalogHandler handles HTTP requests for the catalog view.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// Browse handles GET /api/v1/catalog.
//
// `category` and `search` are the URL-driven overrides produced by the
// routing collaborator; `categories`, `sizes`, `colors`, and `available`
// are comma-separated facet lists; `min_price` / `max_price` bound the
// price inclusively.
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: err.Error()},
		})
		return
	}

	view, err := h.service.Browse(r.Context(), criteria)
	if err != nil {
		// The remote store is unreachable and no fresh cache exists. The
		// client renders this as loading-complete-with-no-data.
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

func criteriaFromQuery(r *http.Request) (domain.Criteria, error) {
	q := r.URL.Query()

	criteria := domain.Criteria{
		URLCategory: q.Get("category"),
		URLSearch:   q.Get("search"),
		Category:    splitList(q.Get("categories")),
		Size:        splitList(q.Get("sizes")),
		Color:       splitList(q.Get("colors")),
	}

	for _, raw := range splitList(q.Get("available")) {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.Criteria{}, errInvalidParam("available", raw)
		}
		criteria.Available = append(criteria.Available, b)
	}

	if raw := q.Get("min_price"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil || min < 0 {
			return domain.Criteria{}, errInvalidParam("min_price", raw)
		}
		criteria.MinPrice = min
	}
	if raw := q.Get("max_price"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil || max < 0 {
			return domain.Criteria{}, errInvalidParam("max_price", raw)
		}
		criteria.MaxPrice = &max
	}

	return criteria, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type paramError struct {
	name  string
	value string
}

func (e paramError) Error() string {
	return e.name + " has invalid value " + strconv.Quote(e.value)
}

func errInvalidParam(name, value string) error {
	return paramError{name: name, value: value}
}
