// Package models holds the domain types shared by the claims registry,
// resolver, pipelines, and transport layer.
package models

import (
	"strings"

	"zkqrc/internal/merkle"
	"zkqrc/internal/zk"
)

// ClaimType identifies a supported claim predicate.
type ClaimType string

const (
	ClaimAge        ClaimType = "age"
	ClaimDrive      ClaimType = "drive"
	ClaimProfession ClaimType = "profession"
)

// NormalizeClaimType canonicalizes the wire form of a claim type. Whether the
// type is actually registered is the registry's call, not a parsing concern.
func NormalizeClaimType(value string) ClaimType {
	return ClaimType(strings.ToLower(strings.TrimSpace(value)))
}

// IdentityRecord is a holder's attribute set as the store returns it.
// Read-only from this subsystem's perspective.
type IdentityRecord struct {
	ID         string
	Attributes map[string]string
}

// Attribute returns the named attribute value and whether it is present.
func (r *IdentityRecord) Attribute(field string) (string, bool) {
	if r == nil || r.Attributes == nil {
		return "", false
	}
	v, ok := r.Attributes[field]
	return v, ok
}

// MerkleRecord is a holder's identity commitment: the root over all attribute
// leaves plus one inclusion proof per attribute, index-aligned with the order
// the leaves were hashed at tree-build time. That alignment is what binds a
// claim's proof to the claimed attribute; nothing else enforces it.
type MerkleRecord struct {
	ID     string
	Root   string
	Proofs []merkle.Proof
}

// ClaimData is the assembled input for one issuance request. Transient;
// never persisted.
type ClaimData struct {
	ClaimType        ClaimType
	Threshold        int64
	ClaimInput       int64
	MerkleProof      merkle.Proof
	MerkleProofIndex int
	SourceField      string
	LeafValue        string
	Root             string
}

// IssuedProof is the result of the issuance pipeline.
type IssuedProof struct {
	ClaimType ClaimType
	Payload   string
	QRDataURL string
	Proof     *zk.Proof
}

// IssuedRoot is the result of the identity-root issuance pipeline.
type IssuedRoot struct {
	Root      string
	Payload   string
	QRDataURL string
}

// Checks itemizes the two independent sub-checks of claim verification.
// Both are always populated so a verifier can tell a proof-system failure
// from an identity-binding failure.
type Checks struct {
	Snark  bool `json:"snark"`
	Merkle bool `json:"merkle"`
}

// VerificationResult is the outcome of the verification pipeline. A false
// Accepted is a legitimate business outcome, not an error.
type VerificationResult struct {
	Accepted bool
	Checks   Checks
}
