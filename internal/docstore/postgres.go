package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostgreSQL implementation of Store. Documents live in a
// single jsonb table:
//
//	CREATE TABLE documents (
//	    collection text NOT NULL,
//	    id         text NOT NULL,
//	    data       jsonb NOT NULL,
//	    PRIMARY KEY (collection, id)
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed document store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	id := uuid.NewString()

	query := `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`
	if _, err := p.pool.Exec(ctx, query, collection, id, raw); err != nil {
		return "", err
	}

	return id, nil
}

func (p *PostgresStore) Get(ctx context.Context, collection, id string) (Record, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var raw []byte

	err := p.pool.QueryRow(ctx, query, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}

		return Record{}, err
	}

	return decodeRecord(id, raw)
}

func (p *PostgresStore) QueryEquals(ctx context.Context, collection, field string, value any) ([]Record, error) {
	text, err := equalityText(value)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, data FROM documents WHERE collection = $1 AND data ->> $2 = $3`

	rows, err := p.pool.Query(ctx, query, collection, field, text)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record

	for rows.Next() {
		var (
			id  string
			raw []byte
		)

		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}

		record, err := decodeRecord(id, raw)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func (p *PostgresStore) AtomicIncrementAndTimestamp(ctx context.Context, collection, id, counterField, timestampField string) error {
	// Single UPDATE statement so the read-modify-write is server-side atomic.
	query := `
		UPDATE documents
		SET data = jsonb_set(
			jsonb_set(data, ARRAY[$3], to_jsonb(COALESCE((data ->> $3)::bigint, 0) + 1)),
			ARRAY[$4], to_jsonb(to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.US"Z"'))
		)
		WHERE collection = $1 AND id = $2
	`

	tag, err := p.pool.Exec(ctx, query, collection, id, counterField, timestampField)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresStore) Update(ctx context.Context, collection, id string, fields Document) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	query := `UPDATE documents SET data = data || $3 WHERE collection = $1 AND id = $2`

	tag, err := p.pool.Exec(ctx, query, collection, id, raw)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`

	_, err := p.pool.Exec(ctx, query, collection, id)

	return err
}

func decodeRecord(id string, raw []byte) (Record, error) {
	var data Document
	if err := json.Unmarshal(raw, &data); err != nil {
		return Record{}, fmt.Errorf("decode document %s: %w", id, err)
	}

	return Record{ID: id, Data: data}, nil
}

// equalityText renders a value the way jsonb's ->> operator does, so
// QueryEquals compares like with like.
func equalityText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("marshal query value: %w", err)
		}

		return string(raw), nil
	}
}

// Compile-time check.
var _ Store = (*PostgresStore)(nil)
