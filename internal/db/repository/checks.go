package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ad-tracker/video-catalog-go/internal/db"
)

// The predicates below are the preconditions the catalog service checks
// before writing. Each call issues a fresh query.

func (r *categoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.q, "category exists",
		psql().Select("1").From(categoryTable).Where(sq.Eq{"id": id}))
}

func (r *categoryRepository) NameInUse(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.q, "category name in use",
		psql().Select("1").From(categoryTable).Where(sq.Eq{"name": name}))
}

// IsActive is false both for missing videos and for soft-deleted ones.
func (r *videoRepository) IsActive(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.q, "video is active",
		psql().Select("1").From(videoTable).Where(sq.Eq{"id": id, "is_active": true}))
}

func (r *videoRepository) ActiveCountInCategory(ctx context.Context, categoryID int64) (int, error) {
	query, args, err := psql().
		Select("COUNT(*)").
		From(videoTable).
		Where(sq.Eq{"category_id": categoryID, "is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count videos query: %w", err)
	}

	var count int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, db.WrapError(err, "count active videos in category")
	}
	return count, nil
}

func exists(ctx context.Context, q db.Querier, operation string, inner sq.SelectBuilder) (bool, error) {
	query, args, err := inner.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build %s query: %w", operation, err)
	}

	var found bool
	if err := q.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, db.WrapError(err, operation)
	}
	return found, nil
}
