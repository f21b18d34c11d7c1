package registry

import (
	"testing"
	"time"

	"zkqrc/internal/claims/models"
	dErrors "zkqrc/pkg/domain-errors"
)

func TestDefinitionFor(t *testing.T) {
	def, err := DefinitionFor(models.ClaimDrive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Threshold != 2 || def.MerkleProofIndex != 6 || def.SourceField != "drilicence" {
		t.Fatalf("unexpected drive definition: %+v", def)
	}

	if _, err := DefinitionFor("passport"); !dErrors.HasCode(err, dErrors.CodeBadRequest) {
		t.Fatalf("expected bad_request for unknown claim type, got %v", err)
	}
}

func TestDefinitionForMerkleIndex(t *testing.T) {
	def, ok := DefinitionForMerkleIndex(2)
	if !ok || def.Type != models.ClaimAge {
		t.Fatalf("expected age definition at index 2, got %+v ok=%v", def, ok)
	}

	if _, ok := DefinitionForMerkleIndex(99); ok {
		t.Fatalf("expected no definition at index 99")
	}

	// The identity anchoring index must never collide with a claim index.
	if _, ok := DefinitionForMerkleIndex(IdentityProofIndex); ok {
		t.Fatalf("identity proof index %d is claimed by a definition", IdentityProofIndex)
	}
}

func TestMerkleProofIndexesAreUnique(t *testing.T) {
	seen := map[int]models.ClaimType{}
	for _, ct := range []models.ClaimType{models.ClaimAge, models.ClaimDrive, models.ClaimProfession} {
		def, err := DefinitionFor(ct)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", ct, err)
		}
		if prev, dup := seen[def.MerkleProofIndex]; dup {
			t.Fatalf("index %d shared by %s and %s", def.MerkleProofIndex, prev, ct)
		}
		seen[def.MerkleProofIndex] = ct
	}
}

func TestAgeFromDOB(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	age, err := AgeFromDOB("01/01/1985", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if age != 39 {
		t.Fatalf("expected age 39, got %d", age)
	}

	// Birthday not yet reached this year.
	age, err = AgeFromDOB("31/12/1985", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if age != 38 {
		t.Fatalf("expected age 38, got %d", age)
	}

	cases := []string{
		"31/02/2020", // calendar date that never existed
		"aa/01/1985",
		"01/bb/1985",
		"01/01/19",
		"",
	}
	for _, dob := range cases {
		if _, err := AgeFromDOB(dob, now); !dErrors.HasCode(err, dErrors.CodeAttributeInvalid) {
			t.Fatalf("expected attribute_invalid for %q, got %v", dob, err)
		}
	}
}
