// Package repotest provides an in-memory repository.UnitOfWork for tests of
// the layers above the database.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ad-tracker/video-catalog-go/internal/db"
	"github.com/ad-tracker/video-catalog-go/internal/db/models"
	"github.com/ad-tracker/video-catalog-go/internal/db/repository"
)

// Store holds categories and videos in maps. A failed unit of work restores
// the maps to their state before it started.
type Store struct {
	mu sync.Mutex

	categories map[int64]models.Category
	videos     map[int64]models.Video
	nextID     int64

	// Commits counts successful units of work.
	Commits int
	// Rollbacks counts units of work that returned an error.
	Rollbacks int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		categories: make(map[int64]models.Category),
		videos:     make(map[int64]models.Video),
	}
}

// Do implements repository.UnitOfWork. Units of work are serialized.
func (s *Store) Do(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make(map[int64]models.Category, len(s.categories))
	for id, c := range s.categories {
		categories[id] = c
	}
	videos := make(map[int64]models.Video, len(s.videos))
	for id, v := range s.videos {
		videos[id] = v
	}
	nextID := s.nextID

	committed := false
	defer func() {
		if !committed {
			s.categories, s.videos, s.nextID = categories, videos, nextID
			s.Rollbacks++
		}
	}()

	repos := &repository.Repositories{
		Categories: &categoryRepo{s: s},
		Videos:     &videoRepo{s: s},
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	committed = true
	s.Commits++
	return nil
}

// AddCategory stores a category directly and returns it with its ID.
func (s *Store) AddCategory(name string) *models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c := models.Category{ID: s.nextID, Name: name}
	s.categories[c.ID] = c
	return &c
}

// AddVideo stores a copy of v under a fresh ID and returns the stored copy.
func (s *Store) AddVideo(v models.Video) *models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	v.ID = s.nextID
	s.videos[v.ID] = v
	return &v
}

// Video returns the stored video with the id whatever its state.
func (s *Store) Video(id int64) (models.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	return v, ok
}

// Category returns the stored category with the id.
func (s *Store) Category(id int64) (models.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	return c, ok
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func notFound(operation string) error {
	return fmt.Errorf("%s: %w", operation, db.ErrNotFound)
}

type categoryRepo struct {
	s *Store
}

func (r *categoryRepo) List(_ context.Context) ([]*models.Category, error) {
	out := make([]*models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		c := c
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *categoryRepo) GetByID(_ context.Context, id int64) (*models.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, notFound("get category by id")
	}
	return &c, nil
}

func (r *categoryRepo) Create(_ context.Context, category *models.Category) error {
	category.ID = r.s.id()
	r.s.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) Update(_ context.Context, category *models.Category) error {
	if _, ok := r.s.categories[category.ID]; !ok {
		return notFound("update category")
	}
	r.s.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.categories[id]; !ok {
		return notFound("delete category")
	}
	delete(r.s.categories, id)
	return nil
}

func (r *categoryRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.s.categories[id]
	return ok, nil
}

func (r *categoryRepo) NameInUse(_ context.Context, name string) (bool, error) {
	for _, c := range r.s.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type videoRepo struct {
	s *Store
}

func (r *videoRepo) active() []models.Video {
	out := make([]models.Video, 0, len(r.s.videos))
	for _, v := range r.s.videos {
		if v.IsActive {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *videoRepo) ListActive(_ context.Context) ([]*models.Video, error) {
	active := r.active()
	out := make([]*models.Video, 0, len(active))
	for i := range active {
		out = append(out, &active[i])
	}
	return out, nil
}

func (r *videoRepo) GetByID(_ context.Context, id int64) (*models.Video, error) {
	v, ok := r.s.videos[id]
	if !ok {
		return nil, notFound("get video by id")
	}
	return &v, nil
}

func (r *videoRepo) GetActiveByID(_ context.Context, id int64) (*models.Video, error) {
	v, ok := r.s.videos[id]
	if !ok || !v.IsActive {
		return nil, notFound("get active video by id")
	}
	return &v, nil
}

func (r *videoRepo) Create(_ context.Context, video *models.Video) error {
	video.ID = r.s.id()
	r.s.videos[video.ID] = *video
	return nil
}

func (r *videoRepo) Update(_ context.Context, video *models.Video) error {
	stored, ok := r.s.videos[video.ID]
	if !ok {
		return notFound("update video")
	}
	// date_created is not among the updated columns.
	video.DateCreated = stored.DateCreated
	r.s.videos[video.ID] = *video
	return nil
}

func (r *videoRepo) IsActive(_ context.Context, id int64) (bool, error) {
	v, ok := r.s.videos[id]
	return ok && v.IsActive, nil
}

func (r *videoRepo) ActiveCountInCategory(_ context.Context, categoryID int64) (int, error) {
	count := 0
	for _, v := range r.s.videos {
		if v.IsActive && v.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *videoRepo) ListCategorized(_ context.Context) ([]*models.CategorizedVideo, error) {
	out := make([]*models.CategorizedVideo, 0)
	for _, v := range r.active() {
		c, ok := r.s.categories[v.CategoryID]
		if !ok {
			continue
		}
		out = append(out, &models.CategorizedVideo{
			ID:          v.ID,
			Category:    c.Name,
			Title:       v.Title,
			YouTubeCode: v.YouTubeCode,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (r *videoRepo) ListForForm(_ context.Context) ([]*models.VideoListItem, error) {
	out := make([]*models.VideoListItem, 0)
	for _, v := range r.active() {
		c, ok := r.s.categories[v.CategoryID]
		if !ok {
			continue
		}
		out = append(out, &models.VideoListItem{
			ID:          v.ID,
			Title:       v.Title,
			YouTubeCode: v.YouTubeCode,
			Category:    c.Name,
		})
	}
	return out, nil
}

var _ repository.UnitOfWork = (*Store)(nil)
