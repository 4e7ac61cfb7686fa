package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lostfound/internal/domain"
	"lostfound/internal/email"
	"lostfound/internal/port"
	"lostfound/internal/validator"
)

// SubmitSuccessMessage is shown to the user after a report is created.
const SubmitSuccessMessage = "Report submitted successfully!"

// SubmitReportInput is the DTO for report submission.
type SubmitReportInput struct {
	Session *domain.UserSession
	Form    domain.ReportForm
	Image   *ImageFile
}

// SubmitResult is the outcome of a successful submission.
type SubmitResult struct {
	Report  *domain.Report           `json:"report"`
	Message string                   `json:"message"`
	History []domain.SubmissionState `json:"history"`
}

// ReportService drives a report through its lifecycle: submission by a
// signed-in user, then resolution and deletion by the admin.
type ReportService interface {
	Submit(ctx context.Context, input SubmitReportInput) (*SubmitResult, error)
	Resolve(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	List(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error)
	Stats(ctx context.Context) (*domain.ReportStats, error)
}

type reportService struct {
	repo          port.ReportRepository
	images        ImageService
	notifier      port.ChangeNotifier
	notifications NotificationQueue
	logger        *zap.Logger
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	repo port.ReportRepository,
	images ImageService,
	notifier port.ChangeNotifier,
	notifications NotificationQueue,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		repo:          repo,
		images:        images,
		notifier:      notifier,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *reportService) Submit(ctx context.Context, input SubmitReportInput) (*SubmitResult, error) {
	if input.Session == nil {
		return nil, domain.ErrUnauthenticated
	}

	form := validator.SanitizeReport(input.Form)
	if errs := validator.ValidateReport(form); !validator.IsReportReady(form, errs) {
		return nil, &domain.ValidationError{Fields: errs}
	}

	sub := domain.NewSubmission()

	var imageURL string
	if input.Image != nil {
		if err := sub.Advance(domain.StateUploading); err != nil {
			return nil, err
		}
		url, err := s.images.Upload(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	if err := sub.Advance(domain.StatePersisting); err != nil {
		return nil, err
	}
	report := &domain.Report{
		Name:          form.Name,
		Description:   form.Description,
		Location:      form.Location,
		Contact:       form.Contact,
		Category:      domain.Category(form.Category),
		ImageURL:      imageURL,
		ReporterEmail: input.Session.Email,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		if imageURL != "" {
			s.logger.Error("report not saved, uploaded image is orphaned",
				zap.String("image_url", imageURL), zap.Error(err))
		} else {
			s.logger.Error("report not saved", zap.Error(err))
		}
		return nil, domain.Persistence(err)
	}
	if err := sub.Advance(domain.StateCreated); err != nil {
		return nil, err
	}

	s.logger.Info("report submitted",
		zap.String("report_id", report.ID.String()),
		zap.String("category", string(report.Category)),
		zap.String("reporter", report.ReporterEmail))

	s.publish(ctx, domain.ChangeCreated, report.ID)
	s.notifications.Enqueue(domain.Notification{
		Kind: domain.NotificationSubmitted,
		To:   report.Contact,
		Variables: map[string]string{
			"email":     report.Contact,
			"item_name": report.Name,
			"status":    "Pending",
			"message":   email.MessageSubmitted,
		},
	})

	return &SubmitResult{
		Report:  report,
		Message: SubmitSuccessMessage,
		History: sub.History(),
	}, nil
}

// Resolve marks a pending report resolved. Resolving an already resolved
// report returns it unchanged and sends nothing.
func (s *reportService) Resolve(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, persistenceErr(err)
	}
	if report.Status == domain.ReportStatusResolved {
		return report, nil
	}

	sub := domain.ResumeSubmission(report.Status)
	if err := sub.Advance(domain.StateResolved); err != nil {
		return nil, err
	}
	err = s.repo.UpdateStatus(ctx, id, domain.ReportStatusPending, domain.ReportStatusResolved)
	if errors.Is(err, domain.ErrNotFound) {
		// Another resolve or a delete got there first.
		current, gerr := s.repo.GetByID(ctx, id)
		if gerr != nil {
			return nil, persistenceErr(gerr)
		}
		return current, nil
	}
	if err != nil {
		s.logger.Error("resolve failed", zap.String("report_id", id.String()), zap.Error(err))
		return nil, persistenceErr(err)
	}
	report.Status = domain.ReportStatusResolved

	s.logger.Info("report resolved", zap.String("report_id", id.String()))
	s.publish(ctx, domain.ChangeUpdated, id)
	s.notifications.Enqueue(domain.Notification{
		Kind: domain.NotificationResolved,
		To:   report.Contact,
		Variables: map[string]string{
			"email":     report.Contact,
			"item_name": report.Name,
			"status":    "Resolved",
			"message":   email.MessageResolved,
		},
	})
	return report, nil
}

// Delete removes a report. The caller must pass confirmed=true.
func (s *reportService) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return persistenceErr(err)
	}
	if err := domain.ResumeSubmission(report.Status).Advance(domain.StateDeleted); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete failed", zap.String("report_id", id.String()), zap.Error(err))
		return persistenceErr(err)
	}

	s.logger.Info("report deleted", zap.String("report_id", id.String()))
	s.publish(ctx, domain.ChangeDeleted, id)
	return nil
}

func (s *reportService) Get(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, persistenceErr(err)
	}
	return report, nil
}

func (s *reportService) List(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error) {
	reports, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, persistenceErr(err)
	}
	return reports, nil
}

func (s *reportService) Stats(ctx context.Context) (*domain.ReportStats, error) {
	reports, err := s.repo.List(ctx, domain.ReportFilter{})
	if err != nil {
		return nil, persistenceErr(err)
	}
	stats := domain.ComputeStats(reports)
	return &stats, nil
}

// publish tells live feeds about a change. Feeds re-read on every change,
// so a lost publish only delays them until the next one.
func (s *reportService) publish(ctx context.Context, t domain.ChangeType, id uuid.UUID) {
	change := domain.ReportChange{Type: t, ReportID: id, At: time.Now().UTC()}
	if err := s.notifier.Publish(ctx, change); err != nil {
		s.logger.Warn("report change not published",
			zap.String("type", string(t)), zap.String("report_id", id.String()), zap.Error(err))
	}
}

// persistenceErr passes ErrNotFound through untouched and tags everything
// else as a store failure.
func persistenceErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return domain.Persistence(err)
}
