// Package payload (de)serializes the two QR wire envelopes: claim proofs and
// identity roots. Serialization always emits the current structured form;
// parsing accepts both the structured form and the legacy pipe-delimited form
// so QR codes issued before the codec upgrade stay verifiable.
package payload

import (
	"encoding/json"
	"strings"

	"zkqrc/internal/merkle"
	"zkqrc/internal/zk"
	dErrors "zkqrc/pkg/domain-errors"
)

const (
	ProofKind = "proof-v1"
	RootKind  = "identity-root-v1"

	LegacyProofKind = "legacy-proof-v0"
	LegacyRootKind  = "legacy-root-v0"

	legacyProofMarker = "1"
	legacyRootMarker  = "2"
)

// Form tags which wire variant a payload arrived in. Call sites branch on
// this tag, never on the raw string.
type Form int

const (
	FormStructured Form = iota
	FormLegacy
)

// ProofPayload is the normalized logical record behind both proof wire forms.
type ProofPayload struct {
	Kind          string
	Form          Form
	Proof         json.RawMessage
	PublicSignals []string
	MerkleProof   merkle.Proof
	HasMerkle     bool
	ClaimType     string
}

// DecodeProofEnvelope interprets the raw proof object as a proof-system
// envelope. Callers treat a failure as "the snark check cannot pass", not as
// a malformed payload: legacy payloads carry proof objects from retired
// proof systems that still must parse.
func (p *ProofPayload) DecodeProofEnvelope() (*zk.Proof, error) {
	var proof zk.Proof
	if err := json.Unmarshal(p.Proof, &proof); err != nil {
		return nil, err
	}
	return &proof, nil
}

type structuredProof struct {
	Kind          string          `json:"kind"`
	Protocol      string          `json:"protocol,omitempty"`
	ClaimType     string          `json:"claimType,omitempty"`
	Proof         json.RawMessage `json:"proof"`
	PublicSignals []string        `json:"publicSignals"`
	MerkleProof   merkle.Proof    `json:"merkleProof,omitempty"`
}

// SerializeProof emits the structured proof envelope. The claim type is
// always included so verifiers can skip index inference.
func SerializeProof(proof *zk.Proof, publicSignals []string, merkleProof merkle.Proof, claimType string) (string, error) {
	rawProof, err := json.Marshal(proof)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to serialize proof")
	}
	out, err := json.Marshal(structuredProof{
		Kind:          ProofKind,
		Protocol:      proof.Protocol,
		ClaimType:     claimType,
		Proof:         rawProof,
		PublicSignals: publicSignals,
		MerkleProof:   merkleProof,
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to serialize proof payload")
	}
	return string(out), nil
}

// ParseProof normalizes either proof wire form into a ProofPayload.
func ParseProof(raw string) (*ProofPayload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, dErrors.New(dErrors.CodePayloadMalformed, "proof must be a non-empty string")
	}

	if strings.HasPrefix(trimmed, "{") {
		return parseStructuredProof(trimmed)
	}
	return parseLegacyProof(trimmed)
}

func parseStructuredProof(raw string) (*ProofPayload, error) {
	var parsed structuredProof
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, dErrors.New(dErrors.CodePayloadMalformed, "proof payload is not valid JSON")
	}
	if !isJSONObject(parsed.Proof) {
		return nil, dErrors.New(dErrors.CodePayloadMalformed, "proof payload is missing a valid proof object")
	}

	kind := parsed.Kind
	if kind == "" {
		kind = ProofKind
	}

	return &ProofPayload{
		Kind:          kind,
		Form:          FormStructured,
		Proof:         parsed.Proof,
		PublicSignals: parsed.PublicSignals,
		MerkleProof:   parsed.MerkleProof,
		HasMerkle:     parsed.MerkleProof != nil,
		ClaimType:     parsed.ClaimType,
	}, nil
}

// parseLegacyProof handles the retired delimited form
// <proofJSON>|1|<merkleProofJSON optional>.
func parseLegacyProof(raw string) (*ProofPayload, error) {
	parts := strings.Split(raw, "|")
	if len(parts) < 2 || parts[1] != legacyProofMarker {
		return nil, dErrors.New(dErrors.CodePayloadMalformed, "proof payload format is invalid")
	}

	if !isJSONObject(json.RawMessage(parts[0])) {
		return nil, dErrors.New(dErrors.CodePayloadMalformed, "legacy proof payload contains invalid proof JSON")
	}

	out := &ProofPayload{
		Kind:          LegacyProofKind,
		Form:          FormLegacy,
		Proof:         json.RawMessage(parts[0]),
		PublicSignals: nil,
	}

	if len(parts) > 2 && parts[2] != "" {
		proof, err := merkle.DecodeProof(json.RawMessage(parts[2]))
		if err != nil {
			return nil, dErrors.New(dErrors.CodePayloadMalformed, "legacy proof payload contains invalid merkle proof JSON")
		}
		out.MerkleProof = proof
		out.HasMerkle = true
	}

	return out, nil
}

// RootPayload is the normalized logical record behind both root wire forms.
type RootPayload struct {
	Kind string
	Form Form
	Root string
}

type structuredRoot struct {
	Kind string `json:"kind"`
	Root string `json:"root"`
}

// SerializeRoot emits the structured identity-root envelope.
func SerializeRoot(root string) (string, error) {
	out, err := json.Marshal(structuredRoot{Kind: RootKind, Root: root})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to serialize root payload")
	}
	return string(out), nil
}

// ParseRoot normalizes either root wire form into a RootPayload.
func ParseRoot(raw string) (*RootPayload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, dErrors.New(dErrors.CodePayloadMalformed, "root must be a non-empty string")
	}

	if strings.HasPrefix(trimmed, "{") {
		var parsed structuredRoot
		if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
			return nil, dErrors.New(dErrors.CodePayloadMalformed, "root payload is not valid JSON")
		}
		if parsed.Root == "" {
			return nil, dErrors.New(dErrors.CodePayloadMalformed, "root payload is missing root")
		}
		kind := parsed.Kind
		if kind == "" {
			kind = RootKind
		}
		return &RootPayload{Kind: kind, Form: FormStructured, Root: parsed.Root}, nil
	}

	parts := strings.Split(trimmed, "|")
	if len(parts) < 2 || parts[1] != legacyRootMarker {
		return nil, dErrors.New(dErrors.CodePayloadMalformed, "root payload format is invalid")
	}
	return &RootPayload{Kind: LegacyRootKind, Form: FormLegacy, Root: parts[0]}, nil
}

func isJSONObject(raw json.RawMessage) bool {
	var probe map[string]json.RawMessage
	return len(raw) > 0 && json.Unmarshal(raw, &probe) == nil
}
