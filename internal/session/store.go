// Package session keeps the admin flag and the UI preferences in signed
// cookies. AdminAuthority is the only code that writes the admin flag.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"

	"lostfound/internal/config"
)

// Cookie names.
const (
	AdminCookie = "lostfound_admin"
	PrefsCookie = "lostfound_prefs"
)

const (
	adminKey = "admin"
	themeKey = "theme"
)

// NewCookieStore creates the signed cookie store shared by the admin flag
// and the preferences.
func NewCookieStore(cfg config.AdminConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
