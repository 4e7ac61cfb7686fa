package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lostfound/internal/domain"
	"lostfound/internal/export"
	"lostfound/internal/guard"
	"lostfound/internal/service"
	"lostfound/internal/session"
)

// FailureLog exposes recorded notification failures.
type FailureLog interface {
	Failures() []domain.NotificationFailure
}

// AdminLoginInput is the admin login form.
type AdminLoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminHandler handles the admin dashboard endpoints.
type AdminHandler struct {
	admin    *session.AdminAuthority
	reports  service.ReportService
	failures FailureLog
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	admin *session.AdminAuthority,
	reports service.ReportService,
	failures FailureLog,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{admin: admin, reports: reports, failures: failures, logger: logger}
}

// Session handles GET /api/v1/admin/session
func (h *AdminHandler) Session(c *gin.Context) {
	RespondOK(c, gin.H{"is_admin": h.admin.IsAdmin(c.Request)})
}

// Login handles POST /api/v1/admin/login
// @Summary Admin sign-in
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AdminLoginInput true "Admin credentials"
// @Success 200 {object} APIResponse "Signed in, redirect to dashboard"
// @Failure 401 {object} APIResponse "Invalid credentials"
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var input AdminLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	if err := h.admin.Login(c.Writer, c.Request, input.Email, input.Password); err != nil {
		HandleError(c, h.logger, err)
		return
	}

	RespondOK(c, gin.H{"is_admin": true, "redirect": guard.AdminDashboardPath})
}

// Logout handles POST /api/v1/admin/logout
func (h *AdminHandler) Logout(c *gin.Context) {
	if err := h.admin.Logout(c.Writer, c.Request); err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, gin.H{"is_admin": false, "redirect": guard.AdminLoginPath})
}

// Reports handles GET /api/v1/admin/reports
// @Summary List all reports for the dashboard
// @Tags admin
// @Produce json
// @Success 200 {object} APIResponse{data=[]domain.Report,meta=ListMeta} "Reports"
// @Failure 401 {object} APIResponse "Admin session required"
// @Security AdminSession
// @Router /admin/reports [get]
func (h *AdminHandler) Reports(c *gin.Context) {
	filter, ok := parseReportFilter(c)
	if !ok {
		return
	}

	reports, err := h.reports.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondList(c, reports, ListMeta{Total: len(reports), Limit: filter.Limit})
}

// Resolve handles PATCH /api/v1/admin/reports/:id/resolve
// @Summary Mark a report resolved
// @Tags admin
// @Produce json
// @Param id path string true "Report ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.Report} "Resolved report"
// @Failure 401 {object} APIResponse "Admin session required"
// @Failure 404 {object} APIResponse "Report not found"
// @Security AdminSession
// @Router /admin/reports/{id}/resolve [patch]
func (h *AdminHandler) Resolve(c *gin.Context) {
	id, ok := parseReportID(c)
	if !ok {
		return
	}

	report, err := h.reports.Resolve(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, report)
}

// Delete handles DELETE /api/v1/admin/reports/:id?confirm=true
// @Summary Delete a report
// @Tags admin
// @Produce json
// @Param id path string true "Report ID (UUID)"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} APIResponse "Report deleted"
// @Failure 400 {object} APIResponse "Confirmation required"
// @Failure 404 {object} APIResponse "Report not found"
// @Security AdminSession
// @Router /admin/reports/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := parseReportID(c)
	if !ok {
		return
	}

	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if err := h.reports.Delete(c.Request.Context(), id, confirmed); err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, gin.H{"message": "Report deleted."})
}

// Export handles GET /api/v1/admin/reports/export?format=csv|xlsx
// @Summary Export reports
// @Tags admin
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file "Report table"
// @Failure 400 {object} APIResponse "Unknown format"
// @Security AdminSession
// @Router /admin/reports/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		badRequest(c, "format must be csv or xlsx")
		return
	}

	reports, err := h.reports.List(c.Request.Context(), domain.ReportFilter{})
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	filename := export.BuildFilename(format, time.Now())
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := export.Write(c.Writer, format, reports); err != nil {
		// Headers are already out; the client sees a truncated file.
		h.logger.Error("report export failed",
			zap.String("format", string(format)), zap.Error(err))
		return
	}
	h.logger.Info("reports exported", zap.String("format", string(format)), zap.Int("rows", len(reports)))
}

// NotificationFailures handles GET /api/v1/admin/notifications/failures
func (h *AdminHandler) NotificationFailures(c *gin.Context) {
	failures := h.failures.Failures()
	RespondList(c, failures, ListMeta{Total: len(failures)})
}
