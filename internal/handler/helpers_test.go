package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lostfound/internal/config"
	"lostfound/internal/handler"
	"lostfound/internal/session"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   *handler.APIError `json:"error"`
	Meta    *handler.ListMeta `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func newContext(method, target string, body io.Reader) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, body)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

var testAdminConfig = config.AdminConfig{
	Email:         "admin@campus.edu",
	Password:      "letmein1",
	SessionSecret: "0123456789abcdef0123456789abcdef",
	SessionMaxAge: 3600,
}

func newCookieStoreAndAdmin() (*session.AdminAuthority, *session.Preferences) {
	store := session.NewCookieStore(testAdminConfig)
	return session.NewAdminAuthority(store, testAdminConfig, zap.NewNop()), session.NewPreferences(store)
}

func withCookies(r *http.Request, cookies []*http.Cookie) {
	for _, ck := range cookies {
		r.AddCookie(ck)
	}
}
