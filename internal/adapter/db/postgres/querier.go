package postgres

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Querier executes a statement and yields its rows. *sql.DB satisfies it directly.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// GormQuerier adapts a gorm connection pool to Querier so that statements go
// through gorm's logger and callbacks.
type GormQuerier struct {
	db *gorm.DB
}

// NewGormQuerier creates a new GormQuerier.
func NewGormQuerier(db *gorm.DB) *GormQuerier {
	return &GormQuerier{db: db}
}

// QueryContext runs query as a raw statement and returns the open rows.
// The caller owns the rows and must close them to release the connection.
func (q *GormQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.WithContext(ctx).Raw(query, args...).Rows()
}
