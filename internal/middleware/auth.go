package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lostfound/internal/domain"
	"lostfound/internal/guard"
	"lostfound/internal/service"
	"lostfound/internal/session"
)

const (
	ContextKeySession = "session"
	ContextKeyClaims  = "claims"
)

func abortRedirect(c *gin.Context, status int, code, msg string, d guard.Decision) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": msg, "redirect": d.Redirect},
	})
}

// AuthMiddleware returns Gin middleware that validates the bearer token and
// injects the user session. Anonymous callers are turned away with a
// redirect to the login page.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *domain.UserSession
		var claims *service.Claims

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if cl, err := authService.ValidateToken(c.Request.Context(), token); err == nil {
				claims = cl
				sess = cl.Session()
			}
		}

		if d := guard.RequireUser(sess); !d.Allow {
			abortRedirect(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Please log in to continue.", d)
			return
		}

		c.Set(ContextKeySession, sess)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireAdmin admits only requests that carry the admin flag.
func RequireAdmin(admin *session.AdminAuthority) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d := guard.RequireAdmin(admin.IsAdmin(c.Request)); !d.Allow {
			abortRedirect(c, http.StatusUnauthorized, "ADMIN_REQUIRED", "Admin login required.", d)
			return
		}
		c.Next()
	}
}

// RedirectIfAdmin keeps an authenticated admin away from the admin login
// surface.
func RedirectIfAdmin(admin *session.AdminAuthority) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d := guard.AdminLoginSurface(admin.IsAdmin(c.Request)); !d.Allow {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"success": true,
				"data":    gin.H{"is_admin": true, "redirect": d.Redirect},
			})
			return
		}
		c.Next()
	}
}

// GetSession extracts the user session from the Gin context.
func GetSession(c *gin.Context) (*domain.UserSession, error) {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil, domain.ErrUnauthenticated
	}
	sess, ok := val.(*domain.UserSession)
	if !ok || sess == nil {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}

// GetClaims extracts the token claims from the Gin context.
func GetClaims(c *gin.Context) (*service.Claims, error) {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, domain.ErrUnauthenticated
	}
	claims, ok := val.(*service.Claims)
	if !ok || claims == nil {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
