package errors

import (
	"fmt"
	"net/http"
	"testing"

	"switchback/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsInnerCode(t *testing.T) {
	err := Wrap(ConfigInvalid("PORT must be a valid TCP port"), "configuration validation failed")
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, "configuration validation failed: PORT must be a valid TCP port", err.Error())
	assert.True(t, IsAppError(err))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCode_ClassifiesDomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{core.NewColumnMissingError("total_driver_payout"), CodeSchemaError, http.StatusUnprocessableEntity},
		{core.NewEmptyCohortError("commute", "Commuting Hours"), CodeCohortError, http.StatusUnprocessableEntity},
		{fmt.Errorf("analysis x: %w", core.ErrInsufficientSample), CodeCohortError, http.StatusUnprocessableEntity},
		{core.NewNonFiniteError("match_rate", 3, 0), CodeNumericError, http.StatusUnprocessableEntity},
		{core.NewNotFoundError("report", "nope"), CodeNotFound, http.StatusNotFound},
		{InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("disk full"), CodeInternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestWrap_ClassifiesPlainCause(t *testing.T) {
	err := Wrapf(core.NewColumnMissingError("commute"), "analysis %s", "commute")
	assert.Equal(t, CodeSchemaError, GetCode(err))
	assert.ErrorIs(t, err, core.ErrSchema)
}

func TestRenderError(t *testing.T) {
	err := RenderError("charts", fmt.Errorf("boom"))
	assert.Equal(t, CodeRenderError, GetCode(err))
	assert.Contains(t, err.Error(), "charts renderer failed")
}
