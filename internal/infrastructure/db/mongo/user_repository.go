package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/ports"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Username         string             `bson:"username"`
	Email            string             `bson:"email"`
	FirstName        string             `bson:"first_name,omitempty"`
	LastName         string             `bson:"last_name,omitempty"`
	Bio              string             `bson:"bio,omitempty"`
	Role             string             `bson:"role"`
	Active           bool               `bson:"active"`
	Staff            bool               `bson:"staff"`
	Superuser        bool               `bson:"superuser"`
	ConfirmationCode string             `bson:"confirmation_code"`
	CreatedAt        int64              `bson:"created_at"`
	UpdatedAt        int64              `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:               d.ID.Hex(),
		Username:         d.Username,
		Email:            d.Email,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Bio:              d.Bio,
		Role:             domain.Role(d.Role),
		Active:           d.Active,
		Staff:            d.Staff,
		Superuser:        d.Superuser,
		ConfirmationCode: d.ConfirmationCode,
		CreatedAt:        unixToTime(d.CreatedAt),
		UpdatedAt:        unixToTime(d.UpdatedAt),
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		Username:         u.Username,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Bio:              u.Bio,
		Role:             string(u.Role),
		Active:           u.Active,
		Staff:            u.Staff,
		Superuser:        u.Superuser,
		ConfirmationCode: u.ConfirmationCode,
		CreatedAt:        u.CreatedAt.Unix(),
		UpdatedAt:        u.UpdatedAt.Unix(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.NewValidationError("username", "username or email already taken")
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *u
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = id.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByUsernameEmail(ctx context.Context, username, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		query["username"] = containsPattern(filter.Search)
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetSkip(skipFor(filter.Page, filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	return users, total, cur.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"email":             u.Email,
		"first_name":        u.FirstName,
		"last_name":         u.LastName,
		"bio":               u.Bio,
		"role":              string(u.Role),
		"active":            u.Active,
		"confirmation_code": u.ConfirmationCode,
		"updated_at":        u.UpdatedAt.Unix(),
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"username": u.Username}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewValidationError("email", "already taken")
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique constraints backing signup idempotency.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

func skipFor(page, limit int) int64 {
	if page < 1 {
		page = 1
	}
	return int64((page - 1) * limit)
}
