package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"lostfound/internal/domain"
	"lostfound/internal/handler"
	"lostfound/internal/middleware"
	"lostfound/internal/service"
	"lostfound/internal/validator"
	"lostfound/mocks"
)

func jsonBody(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func TestAuthHandler_SignUp(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc, zap.NewNop())

	form := validator.SignupForm{
		Firstname: "Priya", Lastname: "Sharma", Username: "priya01",
		Phone: "9876543210", Email: "priya@campus.edu", Password: "Abc123@x",
	}
	authSvc.On("SignUp", mock.Anything, form).Return(&domain.User{ID: uuid.New(), Email: form.Email}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/auth/signup", jsonBody(form))
	h.SignUp(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"redirect":"/login"`)
	assert.NotContains(t, w.Body.String(), "Abc123@x")
	authSvc.AssertExpectations(t)
}

func TestAuthHandler_SignUp_Duplicate(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc, zap.NewNop())
	authSvc.On("SignUp", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateEmail)

	c, w := newContext(http.MethodPost, "/api/v1/auth/signup", jsonBody(validator.SignupForm{Email: "x@y.z"}))
	h.SignUp(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc, zap.NewNop())

	creds := validator.LoginForm{Email: "priya@campus.edu", Password: "Abc123@x"}
	authSvc.On("SignIn", mock.Anything, creds).Return(&service.AuthToken{
		AccessToken: "access-token", ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/auth/login", jsonBody(creds))
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), "access-token")
}

func TestAuthHandler_Login_GenericAuthFailure(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc, zap.NewNop())
	authSvc.On("SignIn", mock.Anything, mock.Anything).Return(nil, domain.Auth(assert.AnError))

	c, w := newContext(http.MethodPost, "/api/v1/auth/login", jsonBody(validator.LoginForm{}))
	h.Login(c)

	env := decode(t, w)
	assert.Equal(t, "AUTH_FAILED", env.Error.Code)
	assert.Equal(t, handler.MsgAuthFailed, env.Error.Message)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestAuthHandler_Login_BadBody(t *testing.T) {
	h := handler.NewAuthHandler(new(mocks.MockAuthService), zap.NewNop())

	c, w := newContext(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("{")))
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LogoutAndMe(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc, zap.NewNop())

	claims := &service.Claims{UserID: uuid.New(), Email: "priya@campus.edu"}
	authSvc.On("SignOut", mock.Anything, claims).Return(nil)
	authSvc.On("Me", mock.Anything, claims.UserID).Return(&domain.User{ID: claims.UserID, Email: claims.Email}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/auth/logout", nil)
	c.Set(middleware.ContextKeyClaims, claims)
	h.Logout(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodGet, "/api/v1/auth/me", nil)
	c.Set(middleware.ContextKeySession, claims.Session())
	h.Me(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), "priya@campus.edu")

	authSvc.AssertExpectations(t)
}

func TestAuthHandler_Logout_Anonymous(t *testing.T) {
	h := handler.NewAuthHandler(new(mocks.MockAuthService), zap.NewNop())

	c, w := newContext(http.MethodPost, "/api/v1/auth/logout", nil)
	h.Logout(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
