package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lostfound/internal/config"
	"lostfound/internal/domain"
	"lostfound/internal/middleware"
	"lostfound/internal/service"
	"lostfound/internal/session"
	"lostfound/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code     string `json:"code"`
		Redirect string `json:"redirect"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	claims := &service.Claims{UserID: uuid.New(), Email: "priya@campus.edu"}
	claims.ID = "token-1"
	authSvc.On("ValidateToken", mock.Anything, "good").Return(claims, nil)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(authSvc))
	var got *domain.UserSession
	r.GET("/me", func(c *gin.Context) {
		got, _ = middleware.GetSession(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", http.NoBody)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, claims.UserID, got.UserID)
	assert.Equal(t, "token-1", got.TokenID)
}

func TestAuthMiddleware_RedirectsAnonymous(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	authSvc.On("ValidateToken", mock.Anything, "bad").Return(nil, domain.ErrUnauthenticated)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(authSvc))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, header := range []string{"", "Basic abc", "Bearer bad"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/me", http.NoBody)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		body := decodeError(t, w)
		assert.False(t, body.Success)
		assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
		assert.Equal(t, "/login", body.Error.Redirect)
	}
}

func TestGetSession_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := middleware.GetSession(c)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = middleware.GetClaims(c)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func newAdminAuthority() *session.AdminAuthority {
	cfg := config.AdminConfig{
		Email:         "admin@campus.edu",
		Password:      "letmein1",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		SessionMaxAge: 3600,
	}
	return session.NewAdminAuthority(session.NewCookieStore(cfg), cfg, zap.NewNop())
}

// adminCookies logs in once and returns the resulting cookies.
func adminCookies(t *testing.T, admin *session.AdminAuthority) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", http.NoBody)
	require.NoError(t, admin.Login(w, req, "ADMIN@campus.edu", "letmein1"))
	return w.Result().Cookies()
}

func TestRequireAdmin(t *testing.T) {
	admin := newAdminAuthority()
	r := gin.New()
	r.GET("/admin/reports", middleware.RequireAdmin(admin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin/reports", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "ADMIN_REQUIRED", body.Error.Code)
	assert.Equal(t, "/admin-login", body.Error.Redirect)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/admin/reports", http.NoBody)
	for _, ck := range adminCookies(t, admin) {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRedirectIfAdmin(t *testing.T) {
	admin := newAdminAuthority()
	reached := false
	r := gin.New()
	r.POST("/admin/login", middleware.RedirectIfAdmin(admin), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/admin/login", http.NoBody)
	for _, ck := range adminCookies(t, admin) {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, reached)
	assert.Contains(t, w.Body.String(), "/admin-dashboard")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.ContextKeyRequestID)) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x", http.NoBody)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/x", http.NoBody)
	r.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(zap.NewNop()))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, w).Error.Code)
}
