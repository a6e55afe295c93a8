package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lborres/jokes"
)

// DBTX is the part of *pgxpool.Pool the adapter uses. Every call acquires a
// pooled connection and releases it before returning.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type Adapter struct {
	db DBTX
}

var _ jokes.Storage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{db: pool}
}

// NewWithDB builds an adapter over any DBTX, such as a transaction.
func NewWithDB(db DBTX) *Adapter {
	return &Adapter{db: db}
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.Ping(ctx)
}
