package handler

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lostfound/internal/domain"
	"lostfound/internal/middleware"
	"lostfound/internal/service"
	"lostfound/internal/validator"
)

const maxListLimit = 200

// ReportHandler handles the public feed and report submission.
type ReportHandler struct {
	reports   service.ReportService
	feed      service.FeedService
	heartbeat time.Duration
	logger    *zap.Logger

	closeOnce sync.Once
	closing   chan struct{}
}

// NewReportHandler creates a new ReportHandler. heartbeat is the interval
// between keep-alive events on the live stream.
func NewReportHandler(
	reports service.ReportService,
	feed service.FeedService,
	heartbeat time.Duration,
	logger *zap.Logger,
) *ReportHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &ReportHandler{
		reports:   reports,
		feed:      feed,
		heartbeat: heartbeat,
		logger:    logger,
		closing:   make(chan struct{}),
	}
}

// CloseStreams ends every open live stream and rejects new ones. It is
// registered as an http.Server shutdown hook.
func (h *ReportHandler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.closing) })
}

// List handles GET /api/v1/reports
// @Summary List reports
// @Description List reports newest first, optionally filtered by category, status and search text
// @Tags reports
// @Produce json
// @Param category query string false "lost, found or all"
// @Param status query string false "pending or resolved"
// @Param search query string false "Case-insensitive match on name or location"
// @Param limit query int false "Maximum rows (capped at 200)"
// @Success 200 {object} APIResponse{data=[]domain.Report,meta=ListMeta} "Reports"
// @Failure 400 {object} APIResponse "Invalid query"
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
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

// Stats handles GET /api/v1/reports/stats
// @Summary Report counters
// @Tags reports
// @Produce json
// @Success 200 {object} APIResponse{data=domain.ReportStats} "Lost, found and total counts"
// @Router /reports/stats [get]
func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.reports.Stats(c.Request.Context())
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, stats)
}

// GetByID handles GET /api/v1/reports/:id
// @Summary Get report by ID
// @Tags reports
// @Produce json
// @Param id path string true "Report ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.Report} "Report details"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Report not found"
// @Router /reports/{id} [get]
func (h *ReportHandler) GetByID(c *gin.Context) {
	id, ok := parseReportID(c)
	if !ok {
		return
	}

	report, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, report)
}

// Submit handles POST /api/v1/reports (multipart/form-data). The image part
// is optional.
// @Summary Submit a report
// @Description Validate, upload the optional image, persist and notify the contact
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Item name"
// @Param description formData string true "Description"
// @Param location formData string true "Where it was lost or found"
// @Param contact formData string true "Contact email"
// @Param category formData string true "lost or found"
// @Param image formData file false "Item photo"
// @Success 201 {object} APIResponse{data=service.SubmitResult} "Report submitted"
// @Failure 401 {object} APIResponse "Unauthenticated"
// @Failure 413 {object} APIResponse "Image too large"
// @Failure 422 {object} APIResponse "Validation failed"
// @Failure 502 {object} APIResponse "Image upload failed"
// @Security BearerAuth
// @Router /reports [post]
func (h *ReportHandler) Submit(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	input := service.SubmitReportInput{
		Session: sess,
		Form: domain.ReportForm{
			Name:        c.PostForm(validator.FieldName),
			Description: c.PostForm(validator.FieldDescription),
			Location:    c.PostForm(validator.FieldLocation),
			Contact:     c.PostForm(validator.FieldContact),
			Category:    c.PostForm(validator.FieldCategory),
		},
	}

	fh, err := c.FormFile(validator.FieldImage)
	switch {
	case err == nil:
		f, openErr := fh.Open()
		if openErr != nil {
			badRequest(c, "could not read image")
			return
		}
		defer f.Close()
		input.Image = &service.ImageFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		badRequest(c, "invalid multipart body")
		return
	}

	result, err := h.reports.Submit(c.Request.Context(), input)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	RespondCreated(c, result)
}

// Stream handles GET /api/v1/reports/stream. It sends the filtered feed as
// server-sent "reports" events, first immediately and then after every
// change, until the client goes away or the server shuts down.
// @Summary Live report feed
// @Tags reports
// @Produce text/event-stream
// @Param category query string false "lost, found or all"
// @Param search query string false "Case-insensitive match on name or location"
// @Success 200 {string} string "reports and heartbeat events"
// @Failure 503 {object} APIResponse "Server shutting down"
// @Router /reports/stream [get]
func (h *ReportHandler) Stream(c *gin.Context) {
	select {
	case <-h.closing:
		RespondError(c, http.StatusServiceUnavailable, &APIError{Code: "SHUTTING_DOWN", Message: "Server is shutting down."})
		return
	default:
	}

	ctx := c.Request.Context()
	sub, err := h.feed.Subscribe(ctx, service.FeedQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	})
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.closing:
			return
		case snap, ok := <-sub.Updates():
			if !ok {
				return
			}
			c.SSEvent("reports", snap)
		case <-ticker.C:
			c.SSEvent("heartbeat", gin.H{"at": time.Now().UTC()})
		}
		c.Writer.Flush()
	}
}

func parseReportFilter(c *gin.Context) (domain.ReportFilter, bool) {
	var filter domain.ReportFilter

	switch cat := c.Query("category"); cat {
	case "", "all":
	default:
		if !domain.Category(cat).Valid() {
			badRequest(c, "category must be lost, found or all")
			return filter, false
		}
		filter.Category = domain.Category(cat)
	}

	if st := c.Query("status"); st != "" {
		if !domain.ReportStatus(st).Valid() {
			badRequest(c, "status must be pending or resolved")
			return filter, false
		}
		filter.Status = domain.ReportStatus(st)
	}

	filter.Search = c.Query("search")

	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return filter, false
		}
		if n > maxListLimit {
			n = maxListLimit
		}
		filter.Limit = n
	}
	return filter, true
}

func parseReportID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid report ID")
		return uuid.Nil, false
	}
	return id, true
}
