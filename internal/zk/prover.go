package zk

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"golang.org/x/sync/semaphore"
)

// Prover generates threshold-predicate proofs from pre-built circuit
// artifacts. Proof generation is CPU-bound and can take seconds, so the
// prover bounds how many proofs run at once; callers queue on the semaphore
// instead of serializing behind one shared worker.
type Prover struct {
	cs            constraint.ConstraintSystem
	pk            groth16.ProvingKey
	sem           *semaphore.Weighted
	successSignal string
}

// NewProver loads the compiled constraint system and proving key from disk.
func NewProver(csPath, pkPath, successSignal string) (*Prover, error) {
	fcs, err := os.Open(csPath)
	if err != nil {
		return nil, fmt.Errorf("open constraint system %s: %w", csPath, err)
	}
	defer fcs.Close()

	cs := groth16.NewCS(ecc.BN254)
	if _, err := cs.ReadFrom(fcs); err != nil {
		return nil, fmt.Errorf("read constraint system %s: %w", csPath, err)
	}

	fpk, err := os.Open(pkPath)
	if err != nil {
		return nil, fmt.Errorf("open proving key %s: %w", pkPath, err)
	}
	defer fpk.Close()

	pk := groth16.NewProvingKey(ecc.BN254)
	if _, err := pk.ReadFrom(fpk); err != nil {
		return nil, fmt.Errorf("read proving key %s: %w", pkPath, err)
	}

	return &Prover{
		cs:            cs,
		pk:            pk,
		sem:           semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
		successSignal: successSignal,
	}, nil
}

// Prove generates a proof that input satisfies the threshold predicate and
// returns it with the fixed success public signal. An unsatisfiable witness
// (input below threshold) surfaces as an error from the backend.
func (p *Prover) Prove(ctx context.Context, input, threshold int64) (*Proof, []string, error) {
	signal, ok := new(big.Int).SetString(p.successSignal, 10)
	if !ok {
		return nil, nil, fmt.Errorf("success public signal %q is not an integer", p.successSignal)
	}

	assignment := &ClaimCircuit{
		Input:     big.NewInt(input),
		Threshold: big.NewInt(threshold),
		Result:    signal,
	}
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("build witness: %w", err)
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, fmt.Errorf("acquire prover slot: %w", err)
	}
	defer p.sem.Release(1)

	proof, err := groth16.Prove(p.cs, p.pk, witness)
	if err != nil {
		return nil, nil, fmt.Errorf("generate proof: %w", err)
	}

	envelope, err := NewProofEnvelope(proof)
	if err != nil {
		return nil, nil, err
	}
	return envelope, []string{p.successSignal}, nil
}
