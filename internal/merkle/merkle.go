// Package merkle implements the inclusion-proof scheme used by the identity
// commitment records: sha256 leaves encoded as lowercase hex, and ordered
// sibling steps tagged with the side the sibling sits on. The step shape is
// part of the wire contract with previously issued records and must not
// change.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Position marks which side of the running hash a sibling occupies.
type Position string

const (
	Left  Position = "left"
	Right Position = "right"
)

// Step is one sibling entry of an inclusion proof.
type Step struct {
	Position Position `json:"position"`
	Data     string   `json:"data"`
}

// Proof is an ordered sibling path from a leaf to the root.
type Proof []Step

// HashLeaf hashes an attribute value into its leaf form.
func HashLeaf(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func combine(left, right []byte) []byte {
	h := sha256.New()
	h.Write(left)
	h.Write(right)
	return h.Sum(nil)
}

// Verify folds the sibling path over the leaf hash and compares the result
// with the expected root. Any malformed hex in the proof fails closed.
func Verify(proof Proof, leafHash, root string) bool {
	current, err := hex.DecodeString(leafHash)
	if err != nil {
		return false
	}
	for _, step := range proof {
		sibling, err := hex.DecodeString(step.Data)
		if err != nil {
			return false
		}
		switch step.Position {
		case Left:
			current = combine(sibling, current)
		case Right:
			current = combine(current, sibling)
		default:
			return false
		}
	}
	return hex.EncodeToString(current) == root
}

// Canonical returns the canonical serialization of a proof. Index inference
// compares stored and submitted proofs by this exact string, so the encoding
// must stay byte-stable: fixed field order, no indentation.
func Canonical(proof Proof) (string, error) {
	raw, err := json.Marshal(proof)
	if err != nil {
		return "", fmt.Errorf("canonicalize merkle proof: %w", err)
	}
	return string(raw), nil
}

// DecodeProof parses a proof from its JSON form, rejecting anything that is
// not an ordered list of sibling steps.
func DecodeProof(raw json.RawMessage) (Proof, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("merkle proof is empty")
	}
	var proof Proof
	if err := json.Unmarshal(raw, &proof); err != nil {
		return nil, fmt.Errorf("decode merkle proof: %w", err)
	}
	for i, step := range proof {
		if step.Position != Left && step.Position != Right {
			return nil, fmt.Errorf("merkle proof step %d has invalid position %q", i, step.Position)
		}
		if _, err := hex.DecodeString(step.Data); err != nil {
			return nil, fmt.Errorf("merkle proof step %d has invalid data: %w", i, err)
		}
	}
	return proof, nil
}

// Tree holds a built tree: the root plus one inclusion proof per leaf,
// index-aligned with the leaf order passed to Build.
type Tree struct {
	Root   string
	Proofs []Proof
}

// Build constructs a tree over the given attribute values. Leaves are hashed
// in order; an odd node is promoted to the next level unchanged. The returned
// proofs verify against the root for the leaf at the same index, which is the
// alignment every stored identity record relies on.
func Build(values []string) (*Tree, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("cannot build merkle tree without leaves")
	}

	level := make([][]byte, len(values))
	for i, v := range values {
		sum := sha256.Sum256([]byte(v))
		level[i] = sum[:]
	}

	proofs := make([]Proof, len(values))
	// position[i] tracks where leaf i's running hash currently sits in the level.
	position := make([]int, len(values))
	for i := range position {
		position[i] = i
	}

	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, combine(level[i], level[i+1]))
		}

		for leaf, pos := range position {
			pair := pos ^ 1
			if pair < len(level) {
				step := Step{Position: Right, Data: hex.EncodeToString(level[pair])}
				if pair < pos {
					step.Position = Left
				}
				proofs[leaf] = append(proofs[leaf], step)
			}
			position[leaf] = pos / 2
		}

		level = next
	}

	return &Tree{
		Root:   hex.EncodeToString(level[0]),
		Proofs: proofs,
	}, nil
}
