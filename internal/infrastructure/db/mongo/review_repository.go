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
)

const collectionReviews = "reviews"

// ReviewRepository persists reviews. The compound unique index on
// (title_id, author) enforces one review per author/title atomically;
// Create maps the conflict to the same validation error the service
// pre-check produces.
type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

type reviewDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	TitleID string             `bson:"title_id"`
	Author  string             `bson:"author"`
	Text    string             `bson:"text"`
	Score   int                `bson:"score"`
	PubDate time.Time          `bson:"pub_date"`
}

func (d *reviewDoc) toDomain() *domain.Review {
	return &domain.Review{
		ID:      d.ID.Hex(),
		TitleID: d.TitleID,
		Author:  d.Author,
		Text:    d.Text,
		Score:   d.Score,
		PubDate: d.PubDate.UTC(),
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := reviewDoc{
		TitleID: rev.TitleID,
		Author:  rev.Author,
		Text:    rev.Text,
		Score:   rev.Score,
		PubDate: rev.PubDate,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.NewValidationError("", "only one review per title is allowed")
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}

	created := *rev
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = id.Hex()
	}
	return &created, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, titleID, id string) (*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReviewNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "title_id": titleID})
}

func (r *ReviewRepository) Find(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReviewNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ReviewRepository) FindByAuthorTitle(ctx context.Context, author, titleID string) (*domain.Review, error) {
	return r.findOne(ctx, bson.M{"author": author, "title_id": titleID})
}

func (r *ReviewRepository) findOne(ctx context.Context, filter bson.M) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc reviewDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReviewRepository) ListByTitle(ctx context.Context, titleID string, page, limit int) ([]*domain.Review, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"title_id": titleID}
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "pub_date", Value: -1}}).
		SetSkip(skipFor(page, limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	var reviews []*domain.Review
	for cur.Next(ctx) {
		var doc reviewDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode review: %w", err)
		}
		reviews = append(reviews, doc.toDomain())
	}
	return reviews, total, cur.Err()
}

func (r *ReviewRepository) Update(ctx context.Context, rev *domain.Review) error {
	oid, err := primitive.ObjectIDFromHex(rev.ID)
	if err != nil {
		return domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"text":  rev.Text,
		"score": rev.Score,
	}})
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// ListIDsByTitle collects the ids of all reviews on a title.
func (r *ReviewRepository) ListIDsByTitle(ctx context.Context, titleID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"title_id": titleID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list review ids: %w", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode review id: %w", err)
		}
		ids = append(ids, doc.ID.Hex())
	}
	return ids, cur.Err()
}

// DeleteByTitle removes every review on a title.
func (r *ReviewRepository) DeleteByTitle(ctx context.Context, titleID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"title_id": titleID}); err != nil {
		return fmt.Errorf("delete reviews by title: %w", err)
	}
	return nil
}

func (r *ReviewRepository) AverageScore(ctx context.Context, titleID string) (float64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"title_id": titleID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$score"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate score: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return 0, 0, cur.Err()
	}
	var result struct {
		Avg   float64 `bson:"avg"`
		Count int64   `bson:"count"`
	}
	if err := cur.Decode(&result); err != nil {
		return 0, 0, fmt.Errorf("decode aggregate: %w", err)
	}
	return result.Avg, result.Count, nil
}

// EnsureIndexes creates the compound unique constraint behind the
// one-review-per-title invariant.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title_id", Value: 1}, {Key: "author", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "title_id", Value: 1}, {Key: "pub_date", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
