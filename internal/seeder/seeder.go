// Package seeder populates the in-memory store with demo holders for local
// development.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"zkqrc/internal/claims/models"
	"zkqrc/internal/claims/store"
	"zkqrc/internal/merkle"
)

// attributeOrder fixes the leaf order every anchored tree is built with.
// The claim registry's proof indexes point into this order: the holder id
// sits at index 1, dob at 2, drilicence at 6, profession at 7.
var attributeOrder = []string{
	"name",
	"id",
	"dob",
	"address",
	"gender",
	"phone",
	"drilicence",
	"profession",
}

// Seeder populates a writable store with demo holders.
type Seeder struct {
	store  *store.InMemory
	logger *slog.Logger
}

// New creates a new seeder.
func New(st *store.InMemory, logger *slog.Logger) *Seeder {
	return &Seeder{store: st, logger: logger}
}

type demoHolder struct {
	id    string
	attrs map[string]string
}

func demoHolders() []demoHolder {
	return []demoHolder{
		{
			id: "123",
			attrs: map[string]string{
				"name":       "Alice Hart",
				"dob":        "01/01/1985",
				"address":    "1 Main Street",
				"gender":     "f",
				"phone":      "555-0100",
				"drilicence": "2",
				"profession": "7",
			},
		},
		{
			// Underage holder with a provisional licence; claim proofs for
			// age and drive cannot be generated for this one.
			id: "124",
			attrs: map[string]string{
				"name":       "Ben Okoro",
				"dob":        "15/08/2010",
				"address":    "2 Main Street",
				"gender":     "m",
				"phone":      "555-0101",
				"drilicence": "1",
				"profession": "0",
			},
		},
		{
			id: uuid.NewString(),
			attrs: map[string]string{
				"name":       "Carol Mezz",
				"dob":        "30/06/1972",
				"address":    "3 Main Street",
				"gender":     "f",
				"phone":      "555-0102",
				"drilicence": "3",
				"profession": "6",
			},
		},
	}
}

// SeedAll anchors every demo holder: builds the attribute tree and stores
// the identity record next to its merkle record.
func (s *Seeder) SeedAll(_ context.Context) error {
	holders := demoHolders()
	for _, h := range holders {
		if err := s.seedHolder(h); err != nil {
			return fmt.Errorf("failed to seed holder %s: %w", h.id, err)
		}
	}
	s.logger.Info("demo holders seeded", "count", len(holders))
	return nil
}

func (s *Seeder) seedHolder(h demoHolder) error {
	tree, err := merkle.Build(Leaves(h.id, h.attrs))
	if err != nil {
		return err
	}
	s.store.Put(
		&models.IdentityRecord{ID: h.id, Attributes: h.attrs},
		&models.MerkleRecord{ID: h.id, Root: tree.Root, Proofs: tree.Proofs},
	)
	return nil
}

// Leaves lays out a holder's attribute values in the canonical leaf order.
func Leaves(holderID string, attrs map[string]string) []string {
	leaves := make([]string, len(attributeOrder))
	for i, field := range attributeOrder {
		if field == "id" {
			leaves[i] = holderID
			continue
		}
		leaves[i] = attrs[field]
	}
	return leaves
}
