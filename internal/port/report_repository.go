package port

import (
	"context"

	"github.com/google/uuid"

	"lostfound/internal/domain"
)

// ReportRepository is the document store for lost and found reports.
type ReportRepository interface {
	// Create inserts a report. The store assigns CreatedAt and forces the
	// status to pending; both are written back into report.
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	// List returns reports newest first.
	List(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error)
	// UpdateStatus moves a report from one status to another. It returns
	// ErrNotFound when no report with that id currently has status from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ReportStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}
