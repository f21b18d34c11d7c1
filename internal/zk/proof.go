package zk

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
)

const (
	protocolGroth16 = "groth16"
	curveBN254      = "bn254"
)

// Proof is the wire form of a zero-knowledge proof: the serialized groth16
// proof bytes wrapped with enough metadata to reject mismatched artifacts.
type Proof struct {
	Protocol string `json:"protocol"`
	Curve    string `json:"curve"`
	Data     string `json:"data"`
}

// NewProofEnvelope serializes a groth16 proof into its wire form.
func NewProofEnvelope(proof groth16.Proof) (*Proof, error) {
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize proof: %w", err)
	}
	return &Proof{
		Protocol: protocolGroth16,
		Curve:    curveBN254,
		Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// decode reconstructs the groth16 proof from its wire form.
func (p *Proof) decode() (groth16.Proof, error) {
	if p == nil {
		return nil, fmt.Errorf("proof is nil")
	}
	if p.Protocol != protocolGroth16 || p.Curve != curveBN254 {
		return nil, fmt.Errorf("unsupported proof envelope %s/%s", p.Protocol, p.Curve)
	}
	raw, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return nil, fmt.Errorf("decode proof data: %w", err)
	}
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("read proof: %w", err)
	}
	return proof, nil
}
