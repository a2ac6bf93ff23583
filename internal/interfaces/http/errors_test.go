package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	applicationwf "github.com/EmmaDeil/steps-ops-backend/internal/application/workflow"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/ledger"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/service"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"not found", fmt.Errorf("%w: leave request x", service.ErrNotFound), codeNotFound, http.StatusNotFound},
		{"version not found", service.ErrVersionNotFound, codeNotFound, http.StatusNotFound},
		{"allocation not found", ledger.ErrAllocationNotFound, codeNotFound, http.StatusNotFound},
		{"invalid transition", domainwf.ErrInvalidTransitionf("approved", "hr_approve"), codeInvalidTransition, http.StatusConflict},
		{"unauthorized", applicationwf.ErrUnauthorized, codeUnauthorized, http.StatusForbidden},
		{"validation", fmt.Errorf("%w: days must be positive", service.ErrValidation), codeValidation, http.StatusBadRequest},
		{"dependency", service.ErrDependencyFailure, codeDependency, http.StatusBadGateway},
		{"unknown", errors.New("disk on fire"), codeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, status := classify(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
