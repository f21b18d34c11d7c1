package zk

import (
	"context"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
)

// Verifier checks proof envelopes against the cached verification key.
// A structurally broken or cryptographically invalid proof is a false
// result, not an error; errors are reserved for the key being unavailable.
type Verifier struct {
	keys *KeyCache
}

// NewVerifier creates a verifier backed by the given key cache.
func NewVerifier(keys *KeyCache) *Verifier {
	return &Verifier{keys: keys}
}

// Verify reports whether the proof verifies for the given public signals.
func (v *Verifier) Verify(_ context.Context, proof *Proof, publicSignals []string) (bool, error) {
	vk, err := v.keys.GetOrLoad()
	if err != nil {
		return false, err
	}

	if len(publicSignals) != 1 {
		return false, nil
	}
	signal, ok := new(big.Int).SetString(publicSignals[0], 10)
	if !ok {
		return false, nil
	}

	decoded, err := proof.decode()
	if err != nil {
		return false, nil
	}

	publicWitness, err := frontend.NewWitness(
		&ClaimCircuit{Result: signal},
		ecc.BN254.ScalarField(),
		frontend.PublicOnly(),
	)
	if err != nil {
		return false, nil
	}

	if err := groth16.Verify(decoded, vk, publicWitness); err != nil {
		return false, nil
	}
	return true, nil
}
