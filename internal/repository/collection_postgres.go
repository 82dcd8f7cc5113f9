package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresCollection[T any] struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresCollection stores documents as JSONB rows of the documents table.
func NewPostgresCollection[T any](pool *pgxpool.Pool, name string) Collection[T] {
	return &postgresCollection[T]{pool: pool, name: name}
}

func (c *postgresCollection[T]) List(ctx context.Context) ([]T, error) {
	const query = `
        SELECT body FROM documents
        WHERE collection=$1
        ORDER BY created_at, id`
	rows, err := c.pool.Query(ctx, query, c.name)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	return c.scan(rows)
}

func (c *postgresCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	const query = `SELECT body FROM documents WHERE collection=$1 AND id=$2`
	var raw []byte
	if err := c.pool.QueryRow(ctx, query, c.name, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.name, id, err)
	}
	return &doc, nil
}

func (c *postgresCollection[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	if filter.empty() {
		return []T{}, nil
	}
	args := []any{c.name, filter.Values}
	clauses := make([]string, 0, len(filter.Fields))
	for _, field := range filter.Fields {
		args = append(args, field)
		clauses = append(clauses, fmt.Sprintf("body->>$%d::text = ANY($2)", len(args)))
	}
	query := `
        SELECT body FROM documents
        WHERE collection=$1 AND (` + strings.Join(clauses, " OR ") + `)
        ORDER BY created_at, id`
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.name, err)
	}
	return c.scan(rows)
}

func (c *postgresCollection[T]) Insert(ctx context.Context, id string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	const query = `
        INSERT INTO documents (collection, id, body)
        VALUES ($1,$2,$3)`
	if _, err := c.pool.Exec(ctx, query, c.name, id, raw); err != nil {
		return fmt.Errorf("insert %s/%s: %w", c.name, id, err)
	}
	return nil
}

func (c *postgresCollection[T]) Replace(ctx context.Context, id string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	const query = `
        UPDATE documents SET body=$3, updated_at=NOW()
        WHERE collection=$1 AND id=$2`
	cmd, err := c.pool.Exec(ctx, query, c.name, id, raw)
	if err != nil {
		return fmt.Errorf("replace %s/%s: %w", c.name, id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *postgresCollection[T]) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE collection=$1 AND id=$2`
	cmd, err := c.pool.Exec(ctx, query, c.name, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *postgresCollection[T]) scan(rows pgx.Rows) ([]T, error) {
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.name, err)
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}
