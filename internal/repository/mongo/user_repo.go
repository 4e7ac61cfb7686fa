package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"lostfound/internal/domain"
	"lostfound/internal/port"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Firstname    string    `bson:"firstname"`
	Lastname     string    `bson:"lastname"`
	Username     string    `bson:"username"`
	Phone        string    `bson:"phone"`
	Email        string    `bson:"email"`
	EmailKey     string    `bson:"email_key"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

type userRepo struct {
	col *mongo.Collection
}

// NewUserRepo creates a new MongoDB-backed UserRepository. Emails keep the
// case they were registered with; lookups and the unique index use the
// lowercased email_key.
func NewUserRepo(db *mongo.Database) port.UserRepository {
	return &userRepo{col: db.Collection(usersCollection)}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.col.InsertOne(ctx, newUserDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("userRepo.Create: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, "userRepo.GetByID")
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email_key": emailKey(email)}, "userRepo.GetByEmail")
}

func newUserDoc(user *domain.User) userDoc {
	return userDoc{
		ID:           user.ID.String(),
		Firstname:    user.Firstname,
		Lastname:     user.Lastname,
		Username:     user.Username,
		Phone:        user.Phone,
		Email:        user.Email,
		EmailKey:     emailKey(user.Email),
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
}

func emailKey(email string) string {
	return strings.ToLower(email)
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M, op string) (*domain.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: parsing user id %q: %w", op, doc.ID, err)
	}
	return &domain.User{
		ID:           id,
		Firstname:    doc.Firstname,
		Lastname:     doc.Lastname,
		Username:     doc.Username,
		Phone:        doc.Phone,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}, nil
}
