package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lostfound/internal/domain"
	"lostfound/internal/port"
)

var reportColumns = []string{
	"id", "name", "description", "location", "contact", "category",
	"image_url", "reporter_email", "status", "created_at",
}

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *domain.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.Status = domain.ReportStatusPending

	query, args, err := psql.Insert("reports").
		Columns("id", "name", "description", "location", "contact", "category",
			"image_url", "reporter_email", "status").
		Values(report.ID, report.Name, report.Description, report.Location, report.Contact,
			report.Category, report.ImageURL, report.ReporterEmail, report.Status).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("reportRepo.Create: building query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&report.CreatedAt); err != nil {
		return fmt.Errorf("reportRepo.Create: %w", err)
	}
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	query, args, err := psql.Select(reportColumns...).
		From("reports").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("reportRepo.GetByID: building query: %w", err)
	}

	var report domain.Report
	if err := r.db.GetContext(ctx, &report, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}
	return &report, nil
}

func (r *reportRepo) List(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error) {
	query, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("reportRepo.List: building query: %w", err)
	}

	reports := []domain.Report{}
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("reportRepo.List: %w", err)
	}
	return reports, nil
}

// likeEscaper makes search text match literally under ILIKE, whose default
// escape character is a backslash.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func listQuery(filter domain.ReportFilter) squirrel.SelectBuilder {
	q := psql.Select(reportColumns...).
		From("reports").
		OrderBy("created_at DESC")

	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"location": pattern},
		})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	return q
}

func (r *reportRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ReportStatus) error {
	query, args, err := updateStatusQuery(id, from, to).ToSql()
	if err != nil {
		return fmt.Errorf("reportRepo.UpdateStatus: building query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reportRepo.UpdateStatus: %w", err)
	}
	return expectOneRow(result, "reportRepo.UpdateStatus")
}

func updateStatusQuery(id uuid.UUID, from, to domain.ReportStatus) squirrel.UpdateBuilder {
	return psql.Update("reports").
		Set("status", to).
		Where(squirrel.Eq{"id": id, "status": from})
}

func (r *reportRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete("reports").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("reportRepo.Delete: building query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reportRepo.Delete: %w", err)
	}
	return expectOneRow(result, "reportRepo.Delete")
}

func (r *reportRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func expectOneRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
