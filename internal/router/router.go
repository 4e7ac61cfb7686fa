package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lostfound/internal/handler"
	"lostfound/internal/middleware"
	"lostfound/internal/service"
	"lostfound/internal/session"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Report     *handler.ReportHandler
	Admin      *handler.AdminHandler
	Validate   *handler.ValidateHandler
	Preference *handler.PreferenceHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	admin *session.AdminAuthority,
	h Handlers,
	allowedOrigins []string,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")
	requireUser := middleware.AuthMiddleware(authSvc)

	auth := v1.Group("/auth")
	auth.POST("/signup", h.Auth.SignUp)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", requireUser, h.Auth.Logout)
	auth.GET("/me", requireUser, h.Auth.Me)

	reports := v1.Group("/reports")
	reports.GET("", h.Report.List)
	reports.GET("/stats", h.Report.Stats)
	reports.GET("/stream", h.Report.Stream)
	reports.GET("/:id", h.Report.GetByID)
	reports.POST("", requireUser, h.Report.Submit)

	v1.POST("/validate", h.Validate.Validate)

	prefs := v1.Group("/preferences")
	prefs.GET("/theme", h.Preference.GetTheme)
	prefs.PUT("/theme", h.Preference.SetTheme)

	// Admin surface
	adminGroup := v1.Group("/admin")
	adminGroup.GET("/session", h.Admin.Session)
	adminGroup.POST("/login", middleware.RedirectIfAdmin(admin), h.Admin.Login)

	protected := adminGroup.Group("")
	protected.Use(middleware.RequireAdmin(admin))
	protected.POST("/logout", h.Admin.Logout)
	protected.GET("/reports", h.Admin.Reports)
	protected.GET("/reports/export", h.Admin.Export)
	protected.PATCH("/reports/:id/resolve", h.Admin.Resolve)
	protected.DELETE("/reports/:id", h.Admin.Delete)
	protected.GET("/notifications/failures", h.Admin.NotificationFailures)

	return r
}
