// Package resolver assembles everything an issuance or verification request
// needs about a holder: the identity record, the merkle commitment record,
// and the resolved claim input.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"zkqrc/internal/claims/models"
	"zkqrc/internal/claims/registry"
	"zkqrc/internal/claims/store"
	dErrors "zkqrc/pkg/domain-errors"
)

// Option configures the resolver.
type Option func(*Resolver)

// Resolver loads holder records and computes claim inputs.
type Resolver struct {
	store store.HolderStore
	clock func() time.Time
}

// New creates a resolver backed by the given holder store.
func New(s store.HolderStore, opts ...Option) *Resolver {
	r := &Resolver{
		store: s,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithClock fixes the resolver's notion of now. Used by tests to make age
// resolution deterministic.
func WithClock(clock func() time.Time) Option {
	return func(r *Resolver) {
		r.clock = clock
	}
}

// LoadHolder fetches the identity and merkle records concurrently. Both must
// exist; either missing is a not-found for the holder as a whole.
func (r *Resolver) LoadHolder(ctx context.Context, holderID string) (*models.IdentityRecord, *models.MerkleRecord, error) {
	var (
		identity *models.IdentityRecord
		record   *models.MerkleRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := r.store.Identity(ctx, holderID)
		if err != nil {
			return fmt.Errorf("load identity: %w", err)
		}
		identity = rec
		return nil
	})
	g.Go(func() error {
		rec, err := r.store.MerkleRecord(ctx, holderID)
		if err != nil {
			return fmt.Errorf("load merkle record: %w", err)
		}
		record = rec
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("Holder not found for id=%s", holderID))
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load holder records")
	}

	return identity, record, nil
}

// ResolveClaim loads the holder and assembles the claim data for one claim
// type: the resolved private input, the predicate threshold, and the
// attribute's inclusion proof at its registered position.
func (r *Resolver) ResolveClaim(ctx context.Context, holderID string, claimType models.ClaimType) (*models.ClaimData, error) {
	def, err := registry.DefinitionFor(claimType)
	if err != nil {
		return nil, err
	}

	identity, record, err := r.LoadHolder(ctx, holderID)
	if err != nil {
		return nil, err
	}

	input, err := def.ResolveInput(identity, r.clock())
	if err != nil {
		return nil, err
	}

	if def.MerkleProofIndex >= len(record.Proofs) || record.Proofs[def.MerkleProofIndex] == nil {
		return nil, dErrors.New(dErrors.CodeInternal, fmt.Sprintf("Merkle proof is missing for claimType=%s", claimType))
	}

	leafValue, ok := identity.Attribute(def.SourceField)
	if !ok {
		return nil, dErrors.New(dErrors.CodeAttributeInvalid, fmt.Sprintf("Holder field is missing for claimType=%s", claimType))
	}

	return &models.ClaimData{
		ClaimType:        claimType,
		Threshold:        def.Threshold,
		ClaimInput:       input,
		MerkleProof:      record.Proofs[def.MerkleProofIndex],
		MerkleProofIndex: def.MerkleProofIndex,
		SourceField:      def.SourceField,
		LeafValue:        leafValue,
		Root:             record.Root,
	}, nil
}
