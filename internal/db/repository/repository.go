// Package repository implements catalog persistence on top of pgx, with
// squirrel building the SQL and scany scanning the rows.
package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/ad-tracker/video-catalog-go/internal/db"
)

const (
	categoryTable = "category"
	videoTable    = "video"
)

var (
	categoryColumns = []string{"id", "name"}
	videoColumns    = []string{
		"id", "title", "youtube_code", "category_id",
		"is_active", "date_created", "date_last_changed",
	}
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// Repositories is the set of repositories bound to one unit of work.
type Repositories struct {
	Categories CategoryRepository
	Videos     VideoRepository
}

// NewRepositories binds every repository to q.
func NewRepositories(q db.Querier) *Repositories {
	return &Repositories{
		Categories: NewCategoryRepository(q),
		Videos:     NewVideoRepository(q),
	}
}

// UnitOfWork runs a function against repositories that share one
// transaction. The transaction is committed once when fn succeeds and
// released on every exit path.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}

type txUnitOfWork struct {
	tx *db.Transactor
}

// NewUnitOfWork creates a UnitOfWork backed by database transactions.
func NewUnitOfWork(tx *db.Transactor) UnitOfWork {
	return &txUnitOfWork{tx: tx}
}

func (u *txUnitOfWork) Do(ctx context.Context, fn func(repos *Repositories) error) error {
	return u.tx.WithinTx(ctx, func(q db.Querier) error {
		return fn(NewRepositories(q))
	})
}
