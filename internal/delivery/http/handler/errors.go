package handler

import (
	"errors"
	"net/http"
	"strconv"

	"medical-appointment-api/internal/usecase"
	"medical-appointment-api/pkg/response"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// writeUsecaseError maps the usecase error kinds onto HTTP statuses.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	var notFound *usecase.NotFoundError
	var validationErr *usecase.ValidationError
	var conflict *usecase.ConflictError

	switch {
	case errors.As(err, &notFound):
		response.NotFound(w, err.Error())
	case errors.As(err, &validationErr):
		response.Error(w, http.StatusBadRequest, validationErr.Reason, nil)
	case errors.As(err, &conflict):
		response.Conflict(w, conflict.Reason)
	default:
		response.InternalServerError(w, fallback)
	}
}

// pagination reads page and limit, defaulting to page 1 of 10 and capping limit at 100.
func pagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
