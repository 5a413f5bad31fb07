package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/ports"
)

const collectionTitles = "titles"

// TitleRepository persists titles.
type TitleRepository struct {
	col *mongo.Collection
}

func NewTitleRepository(db *mongo.Database) *TitleRepository {
	return &TitleRepository{col: db.Collection(collectionTitles)}
}

type titleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Year        int                `bson:"year"`
	Description string             `bson:"description,omitempty"`
	Category    *slugDoc           `bson:"category"`
	Genres      []slugDoc          `bson:"genres"`
}

func (d *titleDoc) toDomain() *domain.Title {
	t := &domain.Title{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Year:        d.Year,
		Description: d.Description,
		Genres:      make([]domain.Genre, 0, len(d.Genres)),
	}
	if d.Category != nil {
		t.Category = &domain.Category{Name: d.Category.Name, Slug: d.Category.Slug}
	}
	for _, g := range d.Genres {
		t.Genres = append(t.Genres, domain.Genre{Name: g.Name, Slug: g.Slug})
	}
	return t
}

func titleToDoc(t *domain.Title) titleDoc {
	doc := titleDoc{
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genres:      make([]slugDoc, 0, len(t.Genres)),
	}
	if t.Category != nil {
		doc.Category = &slugDoc{Name: t.Category.Name, Slug: t.Category.Slug}
	}
	for _, g := range t.Genres {
		doc.Genres = append(doc.Genres, slugDoc{Name: g.Name, Slug: g.Slug})
	}
	return doc
}

func (r *TitleRepository) Create(ctx context.Context, t *domain.Title) (*domain.Title, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, titleToDoc(t))
	if err != nil {
		return nil, fmt.Errorf("insert title: %w", err)
	}

	created := *t
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = id.Hex()
	}
	return &created, nil
}

func (r *TitleRepository) FindByID(ctx context.Context, id string) (*domain.Title, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTitleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc titleDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTitleNotFound
		}
		return nil, fmt.Errorf("find title: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TitleRepository) List(ctx context.Context, filter ports.TitleFilter) ([]*domain.Title, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Name != "" {
		query["name"] = containsPattern(filter.Name)
	}
	if filter.Year != nil {
		query["year"] = *filter.Year
	}
	if filter.Category != "" {
		query["category.slug"] = filter.Category
	}
	if filter.Genre != "" {
		query["genres.slug"] = filter.Genre
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "year", Value: -1}, {Key: "name", Value: 1}}).
		SetSkip(skipFor(filter.Page, filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	defer cur.Close(ctx)

	var titles []*domain.Title
	for cur.Next(ctx) {
		var doc titleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode title: %w", err)
		}
		titles = append(titles, doc.toDomain())
	}
	return titles, total, cur.Err()
}

func (r *TitleRepository) Update(ctx context.Context, t *domain.Title) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return domain.ErrTitleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := titleToDoc(t)
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        doc.Name,
		"year":        doc.Year,
		"description": doc.Description,
		"category":    doc.Category,
		"genres":      doc.Genres,
	}})
	if err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTitleNotFound
	}
	return nil
}

func (r *TitleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTitleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTitleNotFound
	}
	return nil
}

// ClearCategory nulls the category reference on every title carrying the
// given slug.
func (r *TitleRepository) ClearCategory(ctx context.Context, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"category.slug": slug},
		bson.M{"$set": bson.M{"category": nil}},
	)
	if err != nil {
		return fmt.Errorf("null category references: %w", err)
	}
	return nil
}

// RemoveGenre pulls the genre with the given slug out of every title's
// genre list.
func (r *TitleRepository) RemoveGenre(ctx context.Context, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"genres.slug": slug},
		bson.M{"$pull": bson.M{"genres": bson.M{"slug": slug}}},
	)
	if err != nil {
		return fmt.Errorf("remove genre references: %w", err)
	}
	return nil
}
