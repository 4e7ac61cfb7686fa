package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lostfound/internal/middleware"
	"lostfound/internal/service"
	"lostfound/internal/validator"
)

// AuthHandler handles end-user identity endpoints.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// SignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var input validator.SignupForm
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.authService.SignUp(c.Request.Context(), input)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	RespondCreated(c, gin.H{"user": user, "message": "Account created. Please log in.", "redirect": "/login"})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input validator.LoginForm
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	token, err := h.authService.SignIn(c.Request.Context(), input)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	RespondOK(c, token)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), claims); err != nil {
		HandleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: gin.H{"message": "Logged out."}})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	user, err := h.authService.Me(c.Request.Context(), sess.UserID)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	RespondOK(c, user)
}
