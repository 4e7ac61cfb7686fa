package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lostfound/internal/domain"
	"lostfound/internal/port"
)

type reportDoc struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Description   string    `bson:"description"`
	Location      string    `bson:"location"`
	Contact       string    `bson:"contact"`
	Category      string    `bson:"category"`
	ImageURL      string    `bson:"image_url"`
	ReporterEmail string    `bson:"reporter_email"`
	Status        string    `bson:"status"`
	CreatedAt     time.Time `bson:"created_at"`
}

func (d reportDoc) toDomain() (domain.Report, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("parsing report id %q: %w", d.ID, err)
	}
	return domain.Report{
		ID:            id,
		Name:          d.Name,
		Description:   d.Description,
		Location:      d.Location,
		Contact:       d.Contact,
		Category:      domain.Category(d.Category),
		ImageURL:      d.ImageURL,
		ReporterEmail: d.ReporterEmail,
		Status:        domain.ReportStatus(d.Status),
		CreatedAt:     d.CreatedAt,
	}, nil
}

type reportRepo struct {
	db  *mongo.Database
	col *mongo.Collection
}

// NewReportRepo creates a new MongoDB-backed ReportRepository.
func NewReportRepo(db *mongo.Database) port.ReportRepository {
	return &reportRepo{db: db, col: db.Collection(reportsCollection)}
}

func (r *reportRepo) Create(ctx context.Context, report *domain.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.Status = domain.ReportStatusPending
	report.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	doc := reportDoc{
		ID:            report.ID.String(),
		Name:          report.Name,
		Description:   report.Description,
		Location:      report.Location,
		Contact:       report.Contact,
		Category:      string(report.Category),
		ImageURL:      report.ImageURL,
		ReporterEmail: report.ReporterEmail,
		Status:        string(report.Status),
		CreatedAt:     report.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("reportRepo.Create: %w", err)
	}
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	var doc reportDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}
	report, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}
	return &report, nil
}

func (r *reportRepo) List(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, listFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.List: %w", err)
	}
	defer cur.Close(ctx)

	reports := []domain.Report{}
	for cur.Next(ctx) {
		var doc reportDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("reportRepo.List: decoding: %w", err)
		}
		report, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("reportRepo.List: %w", err)
		}
		reports = append(reports, report)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("reportRepo.List: cursor: %w", err)
	}
	return reports, nil
}

func listFilter(filter domain.ReportFilter) bson.M {
	m := bson.M{}
	if filter.Category != "" {
		m["category"] = string(filter.Category)
	}
	if filter.Status != "" {
		m["status"] = string(filter.Status)
	}
	if filter.Search != "" {
		pattern := regexp.QuoteMeta(filter.Search)
		m["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"location": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	return m
}

func (r *reportRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ReportStatus) error {
	res, err := r.col.UpdateOne(ctx,
		statusFilter(id, from),
		bson.M{"$set": bson.M{"status": string(to)}})
	if err != nil {
		return fmt.Errorf("reportRepo.UpdateStatus: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func statusFilter(id uuid.UUID, status domain.ReportStatus) bson.M {
	return bson.M{"_id": id.String(), "status": string(status)}
}

func (r *reportRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("reportRepo.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reportRepo) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}
