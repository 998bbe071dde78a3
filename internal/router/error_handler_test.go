package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "postauth/internal/errors"
)

func TestErrorHandler_Envelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"typed failure", apperrors.ErrSelfRoleModification, http.StatusForbidden, "SelfRoleModificationForbidden", "cannot modify your own roles"},
		{"echo not found", echo.ErrNotFound, http.StatusNotFound, "RouteNotFound", "route not found"},
		{"echo method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "MethodNotAllowed", "method not allowed"},
		{"unknown error", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "InternalServerError", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/users/5/roles", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			ErrorHandler(zap.NewNop())(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var env apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tt.wantStatus, env.StatusCode)
			assert.Equal(t, tt.wantCode, env.ErrorCode)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.Equal(t, "/users/5/roles", env.Path)
			assert.NotEmpty(t, env.Timestamp)
		})
	}
}

func TestErrorHandler_LogsInternalFailures(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/posts", nil), httptest.NewRecorder())

	ErrorHandler(zap.New(core))(errors.New("db exploded"), c)
	ErrorHandler(zap.New(core))(apperrors.ErrPostNotFound, e.NewContext(httptest.NewRequest(http.MethodGet, "/posts/1", nil), httptest.NewRecorder()))

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "db exploded", entries[0].ContextMap()["error"])
}

func TestErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	ErrorHandler(zap.NewNop())(apperrors.ErrInternal, c)

	assert.Equal(t, "done", rec.Body.String())
}
