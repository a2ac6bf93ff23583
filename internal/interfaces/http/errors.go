package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	applicationwf "github.com/EmmaDeil/steps-ops-backend/internal/application/workflow"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/ledger"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/service"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

// Error codes exposed on the wire.
const (
	codeNotFound          = "NOT_FOUND"
	codeInvalidTransition = "INVALID_TRANSITION"
	codeUnauthorized      = "UNAUTHORIZED"
	codeValidation        = "VALIDATION_ERROR"
	codeDependency        = "DEPENDENCY_FAILURE"
	codeInternal          = "INTERNAL"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeError maps a service error onto the wire envelope. Unknown errors are
// reported as INTERNAL without leaking their message.
func writeError(c *gin.Context, err error) {
	code, status := classify(err)

	message := err.Error()
	if code == codeInternal {
		message = "internal error"
	}

	c.JSON(status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrVersionNotFound),
		errors.Is(err, ledger.ErrAllocationNotFound):
		return codeNotFound, http.StatusNotFound
	case errors.Is(err, domainwf.ErrInvalidTransition),
		errors.Is(err, domainwf.ErrInvalidState):
		return codeInvalidTransition, http.StatusConflict
	case errors.Is(err, applicationwf.ErrUnauthorized):
		return codeUnauthorized, http.StatusForbidden
	case errors.Is(err, service.ErrValidation):
		return codeValidation, http.StatusBadRequest
	case errors.Is(err, service.ErrDependencyFailure):
		return codeDependency, http.StatusBadGateway
	default:
		return codeInternal, http.StatusInternalServerError
	}
}
