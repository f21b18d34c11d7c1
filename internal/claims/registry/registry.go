// Package registry is the static claim table: one definition per supported
// claim type, carrying the predicate threshold, the attribute that feeds it,
// and the fixed position of that attribute's inclusion proof in a holder's
// stored proof list.
package registry

import (
	"fmt"
	"strconv"
	"time"

	"zkqrc/internal/claims/models"
	dErrors "zkqrc/pkg/domain-errors"
)

// IdentityProofIndex is the reserved proof position used by identity
// anchoring. It is distinct from every claim index below.
const IdentityProofIndex = 1

// Definition describes one claim type.
type Definition struct {
	Type      models.ClaimType
	Threshold int64

	// MerkleProofIndex is this attribute's fixed position in the holder's
	// proof list. Changing it invalidates every previously issued proof for
	// that holder.
	MerkleProofIndex int

	SourceField  string
	ResolveInput func(record *models.IdentityRecord, now time.Time) (int64, error)
}

var definitions = map[models.ClaimType]Definition{
	models.ClaimAge: {
		Type:             models.ClaimAge,
		Threshold:        18,
		MerkleProofIndex: 2,
		SourceField:      "dob",
		ResolveInput: func(record *models.IdentityRecord, now time.Time) (int64, error) {
			dob, _ := record.Attribute("dob")
			return AgeFromDOB(dob, now)
		},
	},
	models.ClaimDrive: {
		Type:             models.ClaimDrive,
		Threshold:        2,
		MerkleProofIndex: 6,
		SourceField:      "drilicence",
		ResolveInput: func(record *models.IdentityRecord, _ time.Time) (int64, error) {
			return integerAttribute(record, "drilicence")
		},
	},
	models.ClaimProfession: {
		Type:             models.ClaimProfession,
		Threshold:        6,
		MerkleProofIndex: 7,
		SourceField:      "profession",
		ResolveInput: func(record *models.IdentityRecord, _ time.Time) (int64, error) {
			return integerAttribute(record, "profession")
		},
	},
}

// DefinitionFor looks up the definition for a claim type.
func DefinitionFor(claimType models.ClaimType) (Definition, error) {
	def, ok := definitions[claimType]
	if !ok {
		return Definition{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("Unsupported claim type: %s", claimType))
	}
	return def, nil
}

// DefinitionForMerkleIndex reverse-maps a proof position to its claim
// definition. Used when a payload omits its claim type.
func DefinitionForMerkleIndex(index int) (Definition, bool) {
	for _, def := range definitions {
		if def.MerkleProofIndex == index {
			return def, true
		}
	}
	return Definition{}, false
}

func integerAttribute(record *models.IdentityRecord, field string) (int64, error) {
	raw, ok := record.Attribute(field)
	if !ok {
		return 0, dErrors.New(dErrors.CodeAttributeInvalid, fmt.Sprintf("%s attribute is missing", field))
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeAttributeInvalid, fmt.Sprintf("%s attribute is not a well-formed integer", field))
	}
	return value, nil
}

// AgeFromDOB parses a DD/MM/YYYY date of birth and returns the holder's age
// in whole years at the given instant, using the year-of-epoch-delta method:
// the elapsed duration is applied to the Unix epoch and the resulting year
// offset from 1970 is the age. The integer result matches calendar
// subtraction adjusted for month and day.
func AgeFromDOB(dob string, now time.Time) (int64, error) {
	if len(dob) < 10 {
		return 0, dErrors.New(dErrors.CodeAttributeInvalid, "DOB is missing or invalid")
	}

	day, errD := strconv.Atoi(dob[0:2])
	month, errM := strconv.Atoi(dob[3:5])
	year, errY := strconv.Atoi(dob[6:10])
	if errD != nil || errM != nil || errY != nil {
		return 0, dErrors.New(dErrors.CodeAttributeInvalid, "DOB format is invalid. Expected DD/MM/YYYY")
	}

	birth := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (31/02 becomes 02/03),
	// so a round-trip mismatch means the calendar date never existed.
	if birth.Year() != year || birth.Month() != time.Month(month) || birth.Day() != day {
		return 0, dErrors.New(dErrors.CodeAttributeInvalid, "DOB could not be parsed")
	}
	if birth.After(now) {
		return 0, dErrors.New(dErrors.CodeAttributeInvalid, "DOB is in the future")
	}

	ageDate := time.Unix(0, 0).UTC().Add(now.Sub(birth))
	age := int64(ageDate.Year() - 1970)
	if age < 0 {
		age = -age
	}
	return age, nil
}
