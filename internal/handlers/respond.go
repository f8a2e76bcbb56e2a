package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mt5crm/backoffice/internal/models"
	"github.com/mt5crm/backoffice/internal/services"
)

// Pagination describes the page returned by a listing endpoint.
type Pagination struct {
	Page       int   `json:"page" example:"1"`
	PageSize   int   `json:"pageSize" example:"6"`
	Total      int64 `json:"total" example:"13"`
	TotalPages int   `json:"totalPages" example:"3"`
	HasPrev    bool  `json:"hasPrev"`
	HasNext    bool  `json:"hasNext"`
}

func newPagination(page models.PageRequest, total int64) Pagination {
	pages := models.TotalPages(total, page.PageSize)
	return Pagination{
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: pages,
		HasPrev:    page.Page > 1,
		HasNext:    page.Page < pages,
	}
}

// pageParams reads page and pageSize from the query string. Missing or
// unparsable values fall back to defaults; pageSize is capped at maxSize.
func pageParams(r *http.Request, defaultSize, maxSize int) models.PageRequest {
	q := r.URL.Query()
	page := models.PageRequest{
		Page:     positiveInt(q.Get("page"), models.DefaultPage),
		PageSize: positiveInt(q.Get("pageSize"), defaultSize),
	}
	if maxSize > 0 && page.PageSize > maxSize {
		page.PageSize = maxSize
	}
	return page.Normalize()
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// lastPage returns the page to re-query when page lies past the end of a
// listing with total rows, or false when page is in range. An empty listing
// has a single page.
func lastPage(page models.PageRequest, total int64) (models.PageRequest, bool) {
	pages := models.TotalPages(total, page.PageSize)
	if page.Page <= pages {
		return page, false
	}
	page.Page = pages
	return page, true
}

// requestID parses the {id} route parameter. Unparsable ids become 0, which
// the services reject as invalid.
func requestID(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func statusForResult(result models.ActionResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Kind {
	case models.FailureInvalidID:
		return http.StatusBadRequest
	case models.FailureMissingLogin, models.FailureMissingAmount:
		return http.StatusUnprocessableEntity
	case models.FailureNotFound:
		return http.StatusNotFound
	case models.FailureAlreadyApproved, models.FailureAlreadyRejected, models.FailureCancelled,
		models.FailureUnknownStatus, models.FailureInProgress, models.FailureConflict:
		return http.StatusConflict
	case models.FailureLedgerTimeout:
		return http.StatusGatewayTimeout
	case models.FailureLedgerUnreachable, models.FailureLedgerRejected, models.FailureLedgerNoTicket:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeResult(w http.ResponseWriter, result models.ActionResult) {
	services.WriteJSON(w, statusForResult(result), result)
}

func sendListError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrStoreUnavailable) {
		services.SendErrorResponse(w, "Request store unavailable", http.StatusServiceUnavailable, nil)
		return
	}
	services.SendErrorResponse(w, "Failed to load requests", http.StatusInternalServerError, nil)
}

func sendBodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrMultipleBodies) {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}
	services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
}
