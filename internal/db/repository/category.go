package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/ad-tracker/video-catalog-go/internal/db"
	"github.com/ad-tracker/video-catalog-go/internal/db/models"
)

// CategoryRepository defines operations for managing categories.
type CategoryRepository interface {
	// List returns every category ordered by name.
	List(ctx context.Context) ([]*models.Category, error)

	// GetByID returns db.ErrNotFound when the category does not exist.
	GetByID(ctx context.Context, id int64) (*models.Category, error)

	// Create inserts the category and sets its ID.
	Create(ctx context.Context, category *models.Category) error

	// Update replaces the stored name.
	Update(ctx context.Context, category *models.Category) error

	// Delete removes the row permanently.
	Delete(ctx context.Context, id int64) error

	// Exists reports whether a category with the id exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// NameInUse reports whether any category already has the name.
	NameInUse(ctx context.Context, name string) (bool, error)
}

type categoryRepository struct {
	q db.Querier
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(q db.Querier) CategoryRepository {
	return &categoryRepository{q: q}
}

func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	query, args, err := psql().
		Select(categoryColumns...).
		From(categoryTable).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories query: %w", err)
	}

	categories := make([]*models.Category, 0)
	if err := pgxscan.Select(ctx, r.q, &categories, query, args...); err != nil {
		return nil, db.WrapError(err, "list categories")
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query, args, err := psql().
		Select(categoryColumns...).
		From(categoryTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get category query: %w", err)
	}

	var category models.Category
	if err := pgxscan.Get(ctx, r.q, &category, query, args...); err != nil {
		return nil, db.WrapError(err, "get category by id")
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	query, args, err := psql().
		Insert(categoryTable).
		Columns("name").
		Values(category.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert category query: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&category.ID); err != nil {
		return db.WrapError(err, "create category")
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	query, args, err := psql().
		Update(categoryTable).
		Set("name", category.Name).
		Where(sq.Eq{"id": category.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update category query: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return db.WrapError(err, "update category")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update category: %w", db.ErrNotFound)
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql().
		Delete(categoryTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete category query: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return db.WrapError(err, "delete category")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete category: %w", db.ErrNotFound)
	}
	return nil
}
