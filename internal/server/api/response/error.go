package response

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/validator"
)

// HandleError maps domain errors to HTTP responses. It reports whether the
// error was unexpected, so the caller can log it.
func HandleError(w http.ResponseWriter, err error) bool {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return false
	}

	switch {
	case errors.Is(err, common.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, common.ErrorForbidden):
		Forbidden(w, "Not allowed for this tenant or user")
	case errors.Is(err, common.ErrorNotFound):
		NotFound(w, "Record not found")
	case errors.Is(err, common.ErrorNotEditable):
		Conflict(w, "Record is no longer pending")
	case errors.Is(err, common.ErrorConflict):
		Conflict(w, err.Error())
	default:
		InternalServerError(w, "An unexpected error occurred")
		return true
	}
	return false
}
