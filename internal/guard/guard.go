// Package guard decides whether a caller may reach a surface, and where to
// send them when not. Decisions are pure and do no I/O.
package guard

import "lostfound/internal/domain"

// Redirect targets.
const (
	LoginPath          = "/login"
	AdminLoginPath     = "/admin-login"
	AdminDashboardPath = "/admin-dashboard"
)

// Decision is the outcome of a guard check. When Allow is false, Redirect
// names where the caller should go instead.
type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision { return Decision{Allow: true} }

func redirect(to string) Decision { return Decision{Redirect: to} }

// RequireUser admits any signed-in end user.
func RequireUser(s *domain.UserSession) Decision {
	if s == nil {
		return redirect(LoginPath)
	}
	return allow()
}

// RequireAdmin admits the caller only when the admin flag is set.
func RequireAdmin(isAdmin bool) Decision {
	if !isAdmin {
		return redirect(AdminLoginPath)
	}
	return allow()
}

// AdminLoginSurface sends an already-authenticated admin straight to the
// dashboard instead of showing the login form again.
func AdminLoginSurface(isAdmin bool) Decision {
	if isAdmin {
		return redirect(AdminDashboardPath)
	}
	return allow()
}
