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

const collectionComments = "comments"

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(collectionComments)}
}

type commentDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	ReviewID string             `bson:"review_id"`
	Author   string             `bson:"author"`
	Text     string             `bson:"text"`
	PubDate  time.Time          `bson:"pub_date"`
}

func (d *commentDoc) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:       d.ID.Hex(),
		ReviewID: d.ReviewID,
		Author:   d.Author,
		Text:     d.Text,
		PubDate:  d.PubDate.UTC(),
	}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := commentDoc{
		ReviewID: c.ReviewID,
		Author:   c.Author,
		Text:     c.Text,
		PubDate:  c.PubDate,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	created := *c
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = id.Hex()
	}
	return &created, nil
}

func (r *CommentRepository) FindByID(ctx context.Context, reviewID, id string) (*domain.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCommentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc commentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "review_id": reviewID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) ListByReview(ctx context.Context, reviewID string, page, limit int) ([]*domain.Comment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"review_id": reviewID}
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "pub_date", Value: -1}}).
		SetSkip(skipFor(page, limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer cur.Close(ctx)

	var comments []*domain.Comment
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode comment: %w", err)
		}
		comments = append(comments, doc.toDomain())
	}
	return comments, total, cur.Err()
}

func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) error {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return domain.ErrCommentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"text": c.Text}})
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCommentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

// DeleteByReviews removes every comment belonging to the given reviews.
func (r *CommentRepository) DeleteByReviews(ctx context.Context, reviewIDs []string) error {
	if len(reviewIDs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"review_id": bson.M{"$in": reviewIDs}}); err != nil {
		return fmt.Errorf("delete comments by review: %w", err)
	}
	return nil
}
