package payload

import (
	"testing"

	"zkqrc/internal/merkle"
	"zkqrc/internal/zk"
	dErrors "zkqrc/pkg/domain-errors"
)

func sampleMerkleProof() merkle.Proof {
	return merkle.Proof{
		{Position: merkle.Left, Data: "aa11"},
		{Position: merkle.Right, Data: "bb22"},
	}
}

func TestProofRoundTrip(t *testing.T) {
	proof := &zk.Proof{Protocol: "groth16", Curve: "bn254", Data: "c29tZS1wcm9vZg=="}

	raw, err := SerializeProof(proof, []string{"1"}, sampleMerkleProof(), "drive")
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	parsed, err := ParseProof(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Form != FormStructured || parsed.Kind != ProofKind {
		t.Fatalf("unexpected form/kind: %v/%s", parsed.Form, parsed.Kind)
	}
	if parsed.ClaimType != "drive" {
		t.Fatalf("expected claim type drive, got %q", parsed.ClaimType)
	}
	if !parsed.HasMerkle || len(parsed.MerkleProof) != 2 {
		t.Fatalf("merkle proof not carried through: %+v", parsed.MerkleProof)
	}
	if len(parsed.PublicSignals) != 1 || parsed.PublicSignals[0] != "1" {
		t.Fatalf("unexpected public signals: %v", parsed.PublicSignals)
	}

	decoded, err := parsed.DecodeProofEnvelope()
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if *decoded != *proof {
		t.Fatalf("proof changed across round trip: %+v != %+v", decoded, proof)
	}
}

func TestParseProofLegacyForm(t *testing.T) {
	legacy := `{"protocol":"plonk","data":"abc"}|1|[{"position":"right","data":"bb22"}]`

	parsed, err := ParseProof(legacy)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Form != FormLegacy || parsed.Kind != LegacyProofKind {
		t.Fatalf("unexpected form/kind: %v/%s", parsed.Form, parsed.Kind)
	}
	if !parsed.HasMerkle || parsed.MerkleProof[0].Position != merkle.Right {
		t.Fatalf("merkle proof not parsed: %+v", parsed.MerkleProof)
	}
	if parsed.ClaimType != "" {
		t.Fatalf("legacy payloads carry no claim type, got %q", parsed.ClaimType)
	}
	if len(parsed.PublicSignals) != 0 {
		t.Fatalf("legacy payloads carry no signals, got %v", parsed.PublicSignals)
	}
}

func TestParseProofLegacyWithoutMerkle(t *testing.T) {
	parsed, err := ParseProof(`{"protocol":"plonk"}|1`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.HasMerkle {
		t.Fatalf("expected no merkle proof")
	}
}

func TestParseProofRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"not-json|9",                  // wrong marker
		"not-json|1",                  // marker right, proof segment not JSON
		`{"kind":"proof-v1"}`,         // structured without proof object
		`{"proof":"not-an-object"}`,   // proof present but not an object
		`{"proof":{`,                  // broken JSON
		`{"p":{}}|1|{"bad":"shape"}`,  // legacy merkle segment not a step list
		`{"p":{}}|1|[{"position":"up","data":"aa"}]`, // invalid step position
	}
	for _, raw := range cases {
		if _, err := ParseProof(raw); !dErrors.HasCode(err, dErrors.CodePayloadMalformed) {
			t.Fatalf("expected payload_malformed for %q, got %v", raw, err)
		}
	}
}

func TestParseProofDefaultsKind(t *testing.T) {
	parsed, err := ParseProof(`{"proof":{"protocol":"groth16"},"publicSignals":["1"]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Kind != ProofKind {
		t.Fatalf("expected default kind %s, got %s", ProofKind, parsed.Kind)
	}
}

func TestRootRoundTrip(t *testing.T) {
	raw, err := SerializeRoot("deadbeef")
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	parsed, err := ParseRoot(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Root != "deadbeef" || parsed.Kind != RootKind || parsed.Form != FormStructured {
		t.Fatalf("unexpected root payload: %+v", parsed)
	}
}

func TestParseRootLegacyForm(t *testing.T) {
	parsed, err := ParseRoot("deadbeef|2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Root != "deadbeef" || parsed.Kind != LegacyRootKind || parsed.Form != FormLegacy {
		t.Fatalf("unexpected root payload: %+v", parsed)
	}
}

func TestParseRootRejectsMalformed(t *testing.T) {
	cases := []string{"", "deadbeef|1", "deadbeef", `{"kind":"identity-root-v1"}`, `{"root":""}`}
	for _, raw := range cases {
		if _, err := ParseRoot(raw); !dErrors.HasCode(err, dErrors.CodePayloadMalformed) {
			t.Fatalf("expected payload_malformed for %q, got %v", raw, err)
		}
	}
}

// Legacy and structured forms carrying equivalent data must normalize to the
// same logical record.
func TestFormsNormalizeEquivalently(t *testing.T) {
	structured := `{"proof":{"protocol":"plonk","data":"abc"},"merkleProof":[{"position":"right","data":"bb22"}]}`
	legacy := `{"protocol":"plonk","data":"abc"}|1|[{"position":"right","data":"bb22"}]`

	a, err := ParseProof(structured)
	if err != nil {
		t.Fatalf("parse structured: %v", err)
	}
	b, err := ParseProof(legacy)
	if err != nil {
		t.Fatalf("parse legacy: %v", err)
	}

	canonA, _ := merkle.Canonical(a.MerkleProof)
	canonB, _ := merkle.Canonical(b.MerkleProof)
	if canonA != canonB {
		t.Fatalf("merkle proofs differ: %s vs %s", canonA, canonB)
	}

	pa, err := a.DecodeProofEnvelope()
	if err != nil {
		t.Fatalf("decode structured envelope: %v", err)
	}
	pb, err := b.DecodeProofEnvelope()
	if err != nil {
		t.Fatalf("decode legacy envelope: %v", err)
	}
	if *pa != *pb {
		t.Fatalf("proof objects differ: %+v vs %+v", pa, pb)
	}
}
