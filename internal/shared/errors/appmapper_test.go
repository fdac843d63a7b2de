package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

func TestFromAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{name: "fields", err: apperr.Validation("staffId", "is required"), status: http.StatusBadRequest, typ: TypeValidation},
		{name: "state", err: fmt.Errorf("cancel: %w", apperr.ErrStateConflict), status: http.StatusConflict, typ: TypeStateConflict},
		{name: "conflict", err: apperr.Conflict("pick another name"), status: http.StatusConflict, typ: TypeConflict},
		{name: "missing", err: fmt.Errorf("%w: order o-1", apperr.ErrNotFound), status: http.StatusNotFound, typ: TypeNotFound},
		{name: "remote", err: apperr.Remote("list staff", context.Canceled), status: http.StatusBadGateway, typ: TypeRemote},
		{name: "timeout", err: context.DeadlineExceeded, status: http.StatusGatewayTimeout, typ: TypeTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem, ok := FromAppError(tt.err)
			require.True(t, ok)
			require.Equal(t, tt.status, problem.Status)
			require.Equal(t, tt.typ, problem.Type)
		})
	}

	_, ok := FromAppError(fmt.Errorf("boom"))
	require.False(t, ok)
}

func TestChainedResponderWritesFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder := NewChainedResponder("", FromAppError)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/booking/sessions/s-1/submit", nil)

	responder.RespondError(c, apperr.FieldErrors{"staffId": "is required"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "/v1/booking/sessions/s-1/submit", body.Instance)
	require.Equal(t, map[string]any{"staffId": "is required"}, body.Extensions["fields"])
}

func TestChainedResponderHidesUnmappedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder := NewChainedResponder("https://booking.example", FromAppError)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/orders/o-1", nil)

	responder.RespondError(c, fmt.Errorf("pq: connection reset by peer"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "https://booking.example"+TypeInternal, body.Type)
	require.Empty(t, body.Detail)
}
