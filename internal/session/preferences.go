package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"lostfound/internal/domain"
)

// Preferences persists the UI theme across visits.
type Preferences struct {
	store sessions.Store
}

// NewPreferences creates a Preferences backed by store.
func NewPreferences(store sessions.Store) *Preferences {
	return &Preferences{store: store}
}

// Theme returns the saved theme, or light when none is saved.
func (p *Preferences) Theme(r *http.Request) domain.Theme {
	sess, err := p.store.Get(r, PrefsCookie)
	if err != nil {
		return domain.ThemeLight
	}
	s, _ := sess.Values[themeKey].(string)
	if t := domain.Theme(s); t.Valid() {
		return t
	}
	return domain.ThemeLight
}

// SetTheme saves t.
func (p *Preferences) SetTheme(w http.ResponseWriter, r *http.Request, t domain.Theme) error {
	if !t.Valid() {
		return domain.ErrInvalidTheme
	}
	sess, _ := p.store.Get(r, PrefsCookie)
	sess.Values[themeKey] = string(t)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("preferences.SetTheme: %w", err)
	}
	return nil
}
