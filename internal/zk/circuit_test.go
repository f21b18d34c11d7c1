package zk

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/test"
)

func TestClaimCircuitSatisfiedAtOrAboveThreshold(t *testing.T) {
	for _, tc := range []struct {
		name             string
		input, threshold int64
	}{
		{"above threshold", 39, 18},
		{"exactly at threshold", 18, 18},
		{"licence category match", 2, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assignment := &ClaimCircuit{Input: tc.input, Threshold: tc.threshold, Result: 1}
			if err := test.IsSolved(&ClaimCircuit{}, assignment, ecc.BN254.ScalarField()); err != nil {
				t.Fatalf("expected satisfiable witness: %v", err)
			}
		})
	}
}

func TestClaimCircuitUnsatisfiableBelowThreshold(t *testing.T) {
	assignment := &ClaimCircuit{Input: 16, Threshold: 18, Result: 1}
	if err := test.IsSolved(&ClaimCircuit{}, assignment, ecc.BN254.ScalarField()); err == nil {
		t.Fatal("witness below threshold must not satisfy the circuit")
	}
}

func TestClaimCircuitPinsResultSignal(t *testing.T) {
	// The public signal cannot be anything but the success constant.
	assignment := &ClaimCircuit{Input: 39, Threshold: 18, Result: 2}
	if err := test.IsSolved(&ClaimCircuit{}, assignment, ecc.BN254.ScalarField()); err == nil {
		t.Fatal("foreign result signal must not satisfy the circuit")
	}
}
