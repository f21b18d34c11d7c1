package zk

import "github.com/consensys/gnark/frontend"

// ClaimCircuit proves knowledge of a private attribute value that meets a
// registered threshold. Both the value and the threshold stay private; the
// only public signal is Result, pinned to the success constant. A verifier
// therefore learns nothing from the signal itself: the predicate lives in
// provability. An input below the threshold has no satisfying witness.
type ClaimCircuit struct {
	Input     frontend.Variable
	Threshold frontend.Variable
	Result    frontend.Variable `gnark:",public"`
}

// Define encodes the threshold predicate as circuit constraints.
func (c *ClaimCircuit) Define(api frontend.API) error {
	api.AssertIsLessOrEqual(c.Threshold, c.Input)
	api.AssertIsEqual(c.Result, 1)
	return nil
}
