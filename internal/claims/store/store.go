// Package store provides access to holder identity records and their merkle
// commitment records.
package store

import (
	"context"
	"errors"

	"zkqrc/internal/claims/models"
)

// ErrNotFound is returned when a holder or merkle record does not exist.
var ErrNotFound = errors.New("not found")

// HolderStore reads holder records. Implementations are safe for concurrent
// use; the subsystem never writes.
type HolderStore interface {
	Identity(ctx context.Context, holderID string) (*models.IdentityRecord, error)
	MerkleRecord(ctx context.Context, holderID string) (*models.MerkleRecord, error)
	Health(ctx context.Context) error
}
