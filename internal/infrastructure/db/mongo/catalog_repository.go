package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/ports"
)

const (
	collectionCategories = "categories"
	collectionGenres     = "genres"
)

type slugDoc struct {
	Name string `bson:"name"`
	Slug string `bson:"slug"`
}

// CategoryRepository persists categories.
type CategoryRepository struct {
	col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{col: db.Collection(collectionCategories)}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, slugDoc{Name: c.Name, Slug: c.Slug})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewValidationError("slug", "already in use")
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc slugDoc
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &domain.Category{Name: doc.Name, Slug: doc.Slug}, nil
}

func (r *CategoryRepository) List(ctx context.Context, filter ports.SlugFilter) ([]*domain.Category, int64, error) {
	docs, total, err := listSlugDocs(ctx, r.col, filter)
	if err != nil {
		return nil, 0, err
	}
	categories := make([]*domain.Category, 0, len(docs))
	for _, d := range docs {
		categories = append(categories, &domain.Category{Name: d.Name, Slug: d.Slug})
	}
	return categories, total, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	return ensureSlugIndex(ctx, r.col)
}

// GenreRepository persists genres.
type GenreRepository struct {
	col *mongo.Collection
}

func NewGenreRepository(db *mongo.Database) *GenreRepository {
	return &GenreRepository{col: db.Collection(collectionGenres)}
}

func (r *GenreRepository) Create(ctx context.Context, g *domain.Genre) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, slugDoc{Name: g.Name, Slug: g.Slug})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewValidationError("slug", "already in use")
		}
		return fmt.Errorf("insert genre: %w", err)
	}
	return nil
}

func (r *GenreRepository) FindBySlug(ctx context.Context, slug string) (*domain.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc slugDoc
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGenreNotFound
		}
		return nil, fmt.Errorf("find genre: %w", err)
	}
	return &domain.Genre{Name: doc.Name, Slug: doc.Slug}, nil
}

func (r *GenreRepository) List(ctx context.Context, filter ports.SlugFilter) ([]*domain.Genre, int64, error) {
	docs, total, err := listSlugDocs(ctx, r.col, filter)
	if err != nil {
		return nil, 0, err
	}
	genres := make([]*domain.Genre, 0, len(docs))
	for _, d := range docs {
		genres = append(genres, &domain.Genre{Name: d.Name, Slug: d.Slug})
	}
	return genres, total, nil
}

func (r *GenreRepository) Delete(ctx context.Context, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrGenreNotFound
	}
	return nil
}

func (r *GenreRepository) EnsureIndexes(ctx context.Context) error {
	return ensureSlugIndex(ctx, r.col)
}

func listSlugDocs(ctx context.Context, col *mongo.Collection, filter ports.SlugFilter) ([]slugDoc, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		query["name"] = containsPattern(filter.Search)
	}

	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(skipFor(filter.Page, filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list: %w", err)
	}
	defer cur.Close(ctx)

	var docs []slugDoc
	for cur.Next(ctx) {
		var d slugDoc
		if err := cur.Decode(&d); err != nil {
			return nil, 0, fmt.Errorf("decode: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, total, cur.Err()
}

func ensureSlugIndex(ctx context.Context, col *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
