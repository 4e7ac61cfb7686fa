package session

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"lostfound/internal/config"
	"lostfound/internal/domain"
)

// AdminObserver is told about every admin flag transition.
type AdminObserver func(isAdmin bool)

// AdminAuthority owns the admin flag. The flag has no expiry beyond the
// cookie lifetime; it is cleared only by Logout.
type AdminAuthority struct {
	store    sessions.Store
	email    string
	password string
	logger   *zap.Logger

	mu        sync.RWMutex
	nextID    int
	observers map[int]AdminObserver
}

// NewAdminAuthority creates an AdminAuthority checking against the single
// configured credential pair.
func NewAdminAuthority(store sessions.Store, cfg config.AdminConfig, logger *zap.Logger) *AdminAuthority {
	return &AdminAuthority{
		store:     store,
		email:     cfg.Email,
		password:  cfg.Password,
		logger:    logger,
		observers: make(map[int]AdminObserver),
	}
}

// Login sets the admin flag when email and password match the configured
// pair. Email comparison ignores case.
func (a *AdminAuthority) Login(w http.ResponseWriter, r *http.Request, email, password string) error {
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(email)), []byte(strings.ToLower(a.email))) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !emailOK || !passOK || a.password == "" {
		a.logger.Info("admin login rejected", zap.String("email", email))
		return domain.ErrInvalidCredentials
	}

	if err := a.save(w, r, true); err != nil {
		return err
	}
	a.logger.Info("admin logged in")
	a.notify(true)
	return nil
}

// Logout clears the admin flag.
func (a *AdminAuthority) Logout(w http.ResponseWriter, r *http.Request) error {
	if err := a.save(w, r, false); err != nil {
		return err
	}
	a.logger.Info("admin logged out")
	a.notify(false)
	return nil
}

// IsAdmin reports whether the request carries a valid admin flag. A
// tampered or unreadable cookie counts as not admin.
func (a *AdminAuthority) IsAdmin(r *http.Request) bool {
	sess, err := a.store.Get(r, AdminCookie)
	if err != nil {
		return false
	}
	v, _ := sess.Values[adminKey].(bool)
	return v
}

// Subscribe registers obs and returns a func that removes it.
func (a *AdminAuthority) Subscribe(obs AdminObserver) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.observers[id] = obs
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.observers, id)
		a.mu.Unlock()
	}
}

func (a *AdminAuthority) save(w http.ResponseWriter, r *http.Request, isAdmin bool) error {
	// Get returns a fresh session alongside the decode error for a bad
	// cookie, which is then overwritten.
	sess, _ := a.store.Get(r, AdminCookie)
	if isAdmin {
		sess.Values[adminKey] = true
	} else {
		delete(sess.Values, adminKey)
		sess.Options.MaxAge = -1
	}
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("adminAuthority.save: %w", err)
	}
	return nil
}

func (a *AdminAuthority) notify(isAdmin bool) {
	a.mu.RLock()
	obs := make([]AdminObserver, 0, len(a.observers))
	for _, o := range a.observers {
		obs = append(obs, o)
	}
	a.mu.RUnlock()

	for _, o := range obs {
		o(isAdmin)
	}
}
