// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

// PostgresStore persists manifests in a PostgreSQL table, one row per
// file id with the JSON document in a jsonb column. For deployments
// that want manifests in shared, transactional storage rather than on
// the engine host.
type PostgresStore struct {
	db *sql.DB
}

const manifestSchema = `
CREATE TABLE IF NOT EXISTS manifests (
	file_id    TEXT PRIMARY KEY,
	filename   TEXT NOT NULL,
	document   JSONB NOT NULL,
	updated_at BIGINT NOT NULL
)`

// NewPostgresStore connects and ensures the manifests table exists
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(manifestSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create manifests table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Save(ctx context.Context, m *types.Manifest) error {
	data, err := types.EncodeManifest(m)
	if err != nil {
		return fmt.Errorf("encode manifest %s: %w", m.FileID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO manifests (file_id, filename, document, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (file_id) DO UPDATE
		SET filename = EXCLUDED.filename,
		    document = EXCLUDED.document,
		    updated_at = EXCLUDED.updated_at`,
		m.FileID, m.OriginalFilename, data, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save manifest %s: %w", m.FileID, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, fileID string) (*types.Manifest, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM manifests WHERE file_id = $1`, fileID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, fileID)
	}
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", fileID, err)
	}
	return types.DecodeManifest(data)
}

func (s *PostgresStore) Delete(ctx context.Context, fileID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM manifests WHERE file_id = $1`, fileID)
	if err != nil {
		return false, fmt.Errorf("delete manifest %s: %w", fileID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *PostgresStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_id FROM manifests ORDER BY file_id`)
	if err != nil {
		return nil, fmt.Errorf("list manifests: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan manifest id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
