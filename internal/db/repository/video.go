package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/ad-tracker/video-catalog-go/internal/db"
	"github.com/ad-tracker/video-catalog-go/internal/db/models"
)

// VideoRepository defines operations for managing videos.
type VideoRepository interface {
	// ListActive returns active videos ordered by title.
	ListActive(ctx context.Context) ([]*models.Video, error)

	// GetByID returns the video whatever its active state.
	GetByID(ctx context.Context, id int64) (*models.Video, error)

	// GetActiveByID returns db.ErrNotFound for missing and for inactive videos alike.
	GetActiveByID(ctx context.Context, id int64) (*models.Video, error)

	// Create inserts the video and sets its ID.
	Create(ctx context.Context, video *models.Video) error

	// Update writes every mutable column of the video.
	Update(ctx context.Context, video *models.Video) error

	// IsActive reports whether the video exists and is active.
	IsActive(ctx context.Context, id int64) (bool, error)

	// ActiveCountInCategory counts active videos referencing the category.
	ActiveCountInCategory(ctx context.Context, categoryID int64) (int, error)

	// ListCategorized joins active videos with their category name, ordered
	// by category name then title.
	ListCategorized(ctx context.Context) ([]*models.CategorizedVideo, error)

	// ListForForm returns the rows of the HTML video list, ordered by title.
	ListForForm(ctx context.Context) ([]*models.VideoListItem, error)
}

type videoRepository struct {
	q db.Querier
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(q db.Querier) VideoRepository {
	return &videoRepository{q: q}
}

func (r *videoRepository) ListActive(ctx context.Context) ([]*models.Video, error) {
	query, args, err := psql().
		Select(videoColumns...).
		From(videoTable).
		Where(sq.Eq{"is_active": true}).
		OrderBy("title ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list videos query: %w", err)
	}

	videos := make([]*models.Video, 0)
	if err := pgxscan.Select(ctx, r.q, &videos, query, args...); err != nil {
		return nil, db.WrapError(err, "list active videos")
	}
	return videos, nil
}

func (r *videoRepository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	return r.get(ctx, "get video by id", sq.Eq{"id": id})
}

func (r *videoRepository) GetActiveByID(ctx context.Context, id int64) (*models.Video, error) {
	return r.get(ctx, "get active video by id", sq.Eq{"id": id, "is_active": true})
}

func (r *videoRepository) get(ctx context.Context, operation string, where sq.Eq) (*models.Video, error) {
	query, args, err := psql().
		Select(videoColumns...).
		From(videoTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", operation, err)
	}

	var video models.Video
	if err := pgxscan.Get(ctx, r.q, &video, query, args...); err != nil {
		return nil, db.WrapError(err, operation)
	}
	return &video, nil
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	query, args, err := psql().
		Insert(videoTable).
		Columns("title", "youtube_code", "category_id", "is_active", "date_created", "date_last_changed").
		Values(video.Title, video.YouTubeCode, video.CategoryID, video.IsActive, video.DateCreated, video.DateLastChanged).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert video query: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&video.ID); err != nil {
		return db.WrapError(err, "create video")
	}
	return nil
}

func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	query, args, err := psql().
		Update(videoTable).
		SetMap(map[string]interface{}{
			"title":             video.Title,
			"youtube_code":      video.YouTubeCode,
			"category_id":       video.CategoryID,
			"is_active":         video.IsActive,
			"date_last_changed": video.DateLastChanged,
		}).
		Where(sq.Eq{"id": video.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update video query: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return db.WrapError(err, "update video")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update video: %w", db.ErrNotFound)
	}
	return nil
}

func (r *videoRepository) ListCategorized(ctx context.Context) ([]*models.CategorizedVideo, error) {
	query, args, err := psql().
		Select("v.id", "c.name AS category", "v.title", "v.youtube_code").
		From(videoTable + " v").
		Join(categoryTable + " c ON c.id = v.category_id").
		Where(sq.Eq{"v.is_active": true}).
		OrderBy("c.name ASC", "v.title ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categorized videos query: %w", err)
	}

	videos := make([]*models.CategorizedVideo, 0)
	if err := pgxscan.Select(ctx, r.q, &videos, query, args...); err != nil {
		return nil, db.WrapError(err, "list categorized videos")
	}
	return videos, nil
}

func (r *videoRepository) ListForForm(ctx context.Context) ([]*models.VideoListItem, error) {
	query, args, err := psql().
		Select("v.id", "v.title", "v.youtube_code", "c.name AS category").
		From(videoTable + " v").
		Join(categoryTable + " c ON c.id = v.category_id").
		Where(sq.Eq{"v.is_active": true}).
		OrderBy("v.title ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build video list query: %w", err)
	}

	items := make([]*models.VideoListItem, 0)
	if err := pgxscan.Select(ctx, r.q, &items, query, args...); err != nil {
		return nil, db.WrapError(err, "list videos for form")
	}
	return items, nil
}
