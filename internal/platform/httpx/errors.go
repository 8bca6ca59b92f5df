// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

// Sentinel errors for domain layer.
var (
	ErrDuplicate  = errors.New("duplicate entry")
	ErrValidation = errors.New("validation failed")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Access-control outcomes carry their stable machine code; everything
// else degrades to a generic problem without leaking internals.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		ProblemCode(w, http.StatusUnauthorized, "Unauthenticated", err.Error(), shared.CodeUnauthenticated)
	case errors.Is(err, shared.ErrTenantDisabled):
		ProblemCode(w, http.StatusForbidden, "Tenant Disabled", shared.ErrTenantDisabled.Error(), shared.CodeTenantDisabled)
	case errors.Is(err, shared.ErrQuotaExceeded):
		ProblemCode(w, http.StatusUnprocessableEntity, "Quota Exceeded", err.Error(), shared.CodeQuotaExceeded)
	case errors.Is(err, shared.ErrForbidden):
		ProblemCode(w, http.StatusForbidden, "Forbidden", err.Error(), shared.CodeForbidden)
	case errors.Is(err, shared.ErrConfiguration):
		ProblemCode(w, http.StatusForbidden, "Forbidden", shared.ErrForbidden.Error(), shared.CodeConfigurationError)
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
