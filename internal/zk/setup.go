package zk

import (
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// GenerateArtifacts compiles the claim circuit, runs the groth16 setup, and
// writes the constraint system, proving key, and verification key to the
// given paths. Run once per deployment; issued proofs are bound to these
// artifacts.
func GenerateArtifacts(csPath, pkPath, vkPath string) error {
	var circuit ClaimCircuit
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return fmt.Errorf("compile circuit: %w", err)
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return fmt.Errorf("groth16 setup: %w", err)
	}

	if err := writeArtifact(csPath, cs.WriteTo); err != nil {
		return err
	}
	if err := writeArtifact(pkPath, pk.WriteTo); err != nil {
		return err
	}
	return writeArtifact(vkPath, vk.WriteTo)
}

func writeArtifact(path string, writeTo func(w io.Writer) (int64, error)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := writeTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
