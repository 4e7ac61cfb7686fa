package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lostfound/internal/domain"
	"lostfound/internal/session"
)

// ThemeInput is the body of a theme update.
type ThemeInput struct {
	Theme string `json:"theme" binding:"required"`
}

// PreferenceHandler handles UI preference endpoints.
type PreferenceHandler struct {
	prefs  *session.Preferences
	logger *zap.Logger
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(prefs *session.Preferences, logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs, logger: logger}
}

// GetTheme handles GET /api/v1/preferences/theme
func (h *PreferenceHandler) GetTheme(c *gin.Context) {
	RespondOK(c, gin.H{"theme": h.prefs.Theme(c.Request)})
}

// SetTheme handles PUT /api/v1/preferences/theme
func (h *PreferenceHandler) SetTheme(c *gin.Context) {
	var input ThemeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "theme is required")
		return
	}

	theme := domain.Theme(input.Theme)
	if err := h.prefs.SetTheme(c.Writer, c.Request, theme); err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, gin.H{"theme": theme})
}
