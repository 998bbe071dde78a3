package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postauth/internal/auth"
	apperrors "postauth/internal/errors"
	"postauth/internal/validation"
)

type testValidator struct{}

func (testValidator) Validate(i interface{}) error {
	return validation.Struct(i)
}

func newContext(method, body string) echo.Context {
	e := echo.New()
	e.Validator = testValidator{}
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPathID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    uint
		wantErr bool
	}{
		{name: "positive", value: "7", want: 7},
		{name: "zero", value: "0", wantErr: true},
		{name: "negative", value: "-1", wantErr: true},
		{name: "not a number", value: "abc", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(http.MethodGet, "")
			c.SetParamNames("id")
			c.SetParamValues(tt.value)

			got, err := pathID(c, "id")
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Contains(t, err.Error(), "id must be a positive integer")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBind(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "valid", body: `{"email":"a@x.com","password":"pw"}`},
		{name: "malformed json", body: `{"email":`, wantErr: apperrors.ErrInvalidJSON},
		{name: "invalid email", body: `{"email":"nope","password":"pw"}`, wantErr: apperrors.ErrValidation},
		{name: "missing password", body: `{"email":"a@x.com"}`, wantErr: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req LoginRequest
			err := bind(newContext(http.MethodPost, tt.body), &req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a@x.com", req.Email)
		})
	}
}

func TestRegisterRequest_AgeZeroIsAccepted(t *testing.T) {
	var req RegisterRequest
	c := newContext(http.MethodPost, `{"email":"a@x.com","password":"password1","name":"Ann","age":0}`)

	require.NoError(t, bind(c, &req))
	assert.Equal(t, 0, req.input().Age)

	c = newContext(http.MethodPost, `{"email":"a@x.com","password":"password1","name":"Ann"}`)
	assert.ErrorIs(t, bind(c, &req), apperrors.ErrValidation)
}

func TestClaims_MissingFromContext(t *testing.T) {
	_, err := claims(newContext(http.MethodGet, ""))
	assert.ErrorIs(t, err, apperrors.ErrTokenMissing)

	_, err = actor(newContext(http.MethodGet, ""))
	assert.ErrorIs(t, err, apperrors.ErrTokenMissing)
}

func TestActor_FromClaims(t *testing.T) {
	c := newContext(http.MethodGet, "")
	c.Set("claims", &auth.Claims{Identity: auth.Identity{ID: 3, Roles: []string{"user"}}})

	a, err := actor(c)
	require.NoError(t, err)
	assert.Equal(t, uint(3), a.ID)
	assert.Equal(t, []string{"user"}, a.Roles)
}

func TestLoginResult(t *testing.T) {
	assert.Equal(t, "success", loginResult(nil))
	assert.Equal(t, "throttled", loginResult(apperrors.ErrTooManyAttempts))
	assert.Equal(t, "failure", loginResult(apperrors.ErrInvalidCredentials))
	assert.Equal(t, "error", loginResult(apperrors.ErrInternal))
}
