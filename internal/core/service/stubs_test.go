package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/ports"
)

// fixedClock pins time for deterministic timestamps and year bounds.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// --- users ---

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, domain.NewValidationError("username", "username or email already taken")
		}
	}
	copy := cloneUser(u)
	copy.ID = u.Username
	r.users[copy.Username] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameEmail(_ context.Context, username, email string) (*domain.User, error) {
	if u, ok := r.users[username]; ok && u.Email == email {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, filter ports.UserFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if filter.Search == "" || strings.Contains(strings.ToLower(u.Username), strings.ToLower(filter.Search)) {
			out = append(out, cloneUser(u))
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.Username]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.Username] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, username string) error {
	if _, ok := r.users[username]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, username)
	return nil
}

// --- mail ---

type sentMail struct {
	To, Subject, Body string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// --- token ---

type stubSigner struct{}

func (stubSigner) Issue(u *domain.User) (string, error) {
	return "token-for-" + u.Username, nil
}

func (stubSigner) Verify(token string) (domain.Actor, error) {
	return domain.Actor{}, domain.ErrInvalidToken
}

// --- catalog ---

type stubCategoryRepo struct {
	categories map[string]*domain.Category
	deleted    []string
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	if _, ok := r.categories[c.Slug]; ok {
		return domain.NewValidationError("slug", "already taken")
	}
	r.categories[c.Slug] = c
	return nil
}

func (r *stubCategoryRepo) FindBySlug(_ context.Context, slug string) (*domain.Category, error) {
	if c, ok := r.categories[slug]; ok {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *stubCategoryRepo) List(_ context.Context, _ ports.SlugFilter) ([]*domain.Category, int64, error) {
	var out []*domain.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, slug string) error {
	if _, ok := r.categories[slug]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, slug)
	r.deleted = append(r.deleted, slug)
	return nil
}

type stubGenreRepo struct {
	genres map[string]*domain.Genre
}

func newStubGenreRepo() *stubGenreRepo {
	return &stubGenreRepo{genres: make(map[string]*domain.Genre)}
}

func (r *stubGenreRepo) Create(_ context.Context, g *domain.Genre) error {
	if _, ok := r.genres[g.Slug]; ok {
		return domain.NewValidationError("slug", "already taken")
	}
	r.genres[g.Slug] = g
	return nil
}

func (r *stubGenreRepo) FindBySlug(_ context.Context, slug string) (*domain.Genre, error) {
	if g, ok := r.genres[slug]; ok {
		return g, nil
	}
	return nil, domain.ErrGenreNotFound
}

func (r *stubGenreRepo) List(_ context.Context, _ ports.SlugFilter) ([]*domain.Genre, int64, error) {
	var out []*domain.Genre
	for _, g := range r.genres {
		out = append(out, g)
	}
	return out, int64(len(out)), nil
}

func (r *stubGenreRepo) Delete(_ context.Context, slug string) error {
	if _, ok := r.genres[slug]; !ok {
		return domain.ErrGenreNotFound
	}
	delete(r.genres, slug)
	return nil
}

type stubTitleRepo struct {
	titles  map[string]*domain.Title
	nextID  int
	deleted []string
}

func newStubTitleRepo() *stubTitleRepo {
	return &stubTitleRepo{titles: make(map[string]*domain.Title)}
}

func (r *stubTitleRepo) Create(_ context.Context, t *domain.Title) (*domain.Title, error) {
	r.nextID++
	t.ID = fmt.Sprintf("title-%d", r.nextID)
	r.titles[t.ID] = t
	return t, nil
}

func (r *stubTitleRepo) FindByID(_ context.Context, id string) (*domain.Title, error) {
	if t, ok := r.titles[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTitleNotFound
}

func (r *stubTitleRepo) List(_ context.Context, _ ports.TitleFilter) ([]*domain.Title, int64, error) {
	var out []*domain.Title
	for _, t := range r.titles {
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTitleRepo) Update(_ context.Context, t *domain.Title) error {
	if _, ok := r.titles[t.ID]; !ok {
		return domain.ErrTitleNotFound
	}
	r.titles[t.ID] = t
	return nil
}

func (r *stubTitleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.titles[id]; !ok {
		return domain.ErrTitleNotFound
	}
	delete(r.titles, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubTitleRepo) ClearCategory(_ context.Context, slug string) error {
	for _, t := range r.titles {
		if t.Category != nil && t.Category.Slug == slug {
			t.Category = nil
		}
	}
	return nil
}

func (r *stubTitleRepo) RemoveGenre(_ context.Context, slug string) error {
	for _, t := range r.titles {
		kept := t.Genres[:0]
		for _, g := range t.Genres {
			if g.Slug != slug {
				kept = append(kept, g)
			}
		}
		t.Genres = kept
	}
	return nil
}

// --- reviews ---

type stubReviewRepo struct {
	reviews map[string]*domain.Review
	nextID  int
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{reviews: make(map[string]*domain.Review)}
}

func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) (*domain.Review, error) {
	for _, existing := range r.reviews {
		if existing.TitleID == rv.TitleID && existing.Author == rv.Author {
			return nil, domain.NewValidationError("", "only one review per title is allowed")
		}
	}
	r.nextID++
	rv.ID = fmt.Sprintf("review-%d", r.nextID)
	r.reviews[rv.ID] = rv
	return rv, nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, titleID, id string) (*domain.Review, error) {
	if rv, ok := r.reviews[id]; ok && rv.TitleID == titleID {
		return rv, nil
	}
	return nil, domain.ErrReviewNotFound
}

func (r *stubReviewRepo) Find(_ context.Context, id string) (*domain.Review, error) {
	if rv, ok := r.reviews[id]; ok {
		return rv, nil
	}
	return nil, domain.ErrReviewNotFound
}

func (r *stubReviewRepo) FindByAuthorTitle(_ context.Context, author, titleID string) (*domain.Review, error) {
	for _, rv := range r.reviews {
		if rv.Author == author && rv.TitleID == titleID {
			return rv, nil
		}
	}
	return nil, domain.ErrReviewNotFound
}

func (r *stubReviewRepo) ListByTitle(_ context.Context, titleID string, _, _ int) ([]*domain.Review, int64, error) {
	var out []*domain.Review
	for _, rv := range r.reviews {
		if rv.TitleID == titleID {
			out = append(out, rv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubReviewRepo) Update(_ context.Context, rv *domain.Review) error {
	if _, ok := r.reviews[rv.ID]; !ok {
		return domain.ErrReviewNotFound
	}
	r.reviews[rv.ID] = rv
	return nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *stubReviewRepo) ListIDsByTitle(_ context.Context, titleID string) ([]string, error) {
	var ids []string
	for id, rv := range r.reviews {
		if rv.TitleID == titleID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *stubReviewRepo) DeleteByTitle(_ context.Context, titleID string) error {
	for id, rv := range r.reviews {
		if rv.TitleID == titleID {
			delete(r.reviews, id)
		}
	}
	return nil
}

func (r *stubReviewRepo) AverageScore(_ context.Context, titleID string) (float64, int64, error) {
	var sum, count int64
	for _, rv := range r.reviews {
		if rv.TitleID == titleID {
			sum += int64(rv.Score)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// --- comments ---

type stubCommentRepo struct {
	comments map[string]*domain.Comment
	nextID   int
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: make(map[string]*domain.Comment)}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.nextID++
	c.ID = fmt.Sprintf("comment-%d", r.nextID)
	r.comments[c.ID] = c
	return c, nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, reviewID, id string) (*domain.Comment, error) {
	if c, ok := r.comments[id]; ok && c.ReviewID == reviewID {
		return c, nil
	}
	return nil, domain.ErrCommentNotFound
}

func (r *stubCommentRepo) ListByReview(_ context.Context, reviewID string, _, _ int) ([]*domain.Comment, int64, error) {
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.ReviewID == reviewID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCommentRepo) Update(_ context.Context, c *domain.Comment) error {
	if _, ok := r.comments[c.ID]; !ok {
		return domain.ErrCommentNotFound
	}
	r.comments[c.ID] = c
	return nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *stubCommentRepo) DeleteByReviews(_ context.Context, reviewIDs []string) error {
	for _, reviewID := range reviewIDs {
		for id, c := range r.comments {
			if c.ReviewID == reviewID {
				delete(r.comments, id)
			}
		}
	}
	return nil
}

// --- rating cache ---

type stubRatingCache struct {
	entries      map[string]*int
	invalidated  []string
	missesServed int
}

func newStubRatingCache() *stubRatingCache {
	return &stubRatingCache{entries: make(map[string]*int)}
}

func (c *stubRatingCache) Get(_ context.Context, titleID string) (*int, bool, error) {
	if rating, ok := c.entries[titleID]; ok {
		return rating, true, nil
	}
	c.missesServed++
	return nil, false, nil
}

func (c *stubRatingCache) Set(_ context.Context, titleID string, rating *int) error {
	c.entries[titleID] = rating
	return nil
}

func (c *stubRatingCache) Invalidate(_ context.Context, titleID string) error {
	delete(c.entries, titleID)
	c.invalidated = append(c.invalidated, titleID)
	return nil
}
