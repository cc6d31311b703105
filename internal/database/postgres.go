// Package database implements the relational backends readings are loaded
// into: PostgreSQL through pgx, and a local SQLite file through gorm.
package database

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/sensorsim/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Conn is the subset of *pgx.Conn used by Postgres.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close(ctx context.Context) error
}

// Postgres loads readings over a single PostgreSQL connection.
type Postgres struct {
	conn   Conn
	schema string
	table  string
}

// Connect opens one connection to PostgreSQL. Readings go to schema.table.
func Connect(ctx context.Context, connString, schema, table string) (*Postgres, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return NewPostgres(conn, schema, table), nil
}

// NewPostgres wraps an existing connection.
func NewPostgres(conn Conn, schema, table string) *Postgres {
	return &Postgres{conn: conn, schema: schema, table: table}
}

func (p *Postgres) ident(table string) pgx.Identifier {
	if p.schema == "" {
		return pgx.Identifier{table}
	}
	return pgx.Identifier{p.schema, table}
}

// ReferenceIDs returns up to limit identifiers from schema.table.column,
// cast to text.
func (p *Postgres) ReferenceIDs(ctx context.Context, table, column string, limit int) ([]string, error) {
	sql := fmt.Sprintf("SELECT %s::text FROM %s LIMIT $1",
		pgx.Identifier{column}.Sanitize(), p.ident(table).Sanitize())

	rows, err := p.conn.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id pgtype.Text
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if id.Valid {
			ids = append(ids, id.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// InsertBatch copies all readings into the readings table inside one
// transaction. Nothing is committed unless every row is accepted.
func (p *Postgres) InsertBatch(ctx context.Context, readings []core.Reading) (int64, error) {
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(ctx, p.ident(p.table), core.Columns,
		pgx.CopyFromSlice(len(readings), func(i int) ([]any, error) {
			return CopyRow(readings[i]), nil
		}))
	if err != nil {
		return 0, err
	}
	if n != int64(len(readings)) {
		return 0, fmt.Errorf("copied %d of %d readings", n, len(readings))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return n, nil
}

// Close closes the connection.
func (p *Postgres) Close() error {
	return p.conn.Close(context.Background())
}
