package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"zkqrc/internal/claims/models"
	"zkqrc/internal/merkle"
)

// PostgresStore reads holder records from PostgreSQL. Attributes and proof
// lists are stored as JSONB, mirroring the document shape the records were
// migrated from.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed holder store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Identity retrieves a holder's identity record.
func (s *PostgresStore) Identity(ctx context.Context, holderID string) (*models.IdentityRecord, error) {
	query := `
		SELECT holder_id, attributes
		FROM holders
		WHERE holder_id = $1
	`
	var (
		id       string
		rawAttrs []byte
	)
	err := s.db.QueryRowContext(ctx, query, holderID).Scan(&id, &rawAttrs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query holder: %w", err)
	}

	attrs := make(map[string]string)
	if err := json.Unmarshal(rawAttrs, &attrs); err != nil {
		return nil, fmt.Errorf("decode holder attributes: %w", err)
	}
	return &models.IdentityRecord{ID: id, Attributes: attrs}, nil
}

// MerkleRecord retrieves a holder's merkle commitment record.
func (s *PostgresStore) MerkleRecord(ctx context.Context, holderID string) (*models.MerkleRecord, error) {
	query := `
		SELECT holder_id, root, proofs
		FROM merkle_records
		WHERE holder_id = $1
	`
	var (
		id        string
		root      string
		rawProofs []byte
	)
	err := s.db.QueryRowContext(ctx, query, holderID).Scan(&id, &root, &rawProofs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query merkle record: %w", err)
	}

	var proofs []merkle.Proof
	if err := json.Unmarshal(rawProofs, &proofs); err != nil {
		return nil, fmt.Errorf("decode merkle proofs: %w", err)
	}
	return &models.MerkleRecord{ID: id, Root: root, Proofs: proofs}, nil
}

// Health checks database reachability.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
