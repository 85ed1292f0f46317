// Package fraud implements the fraud-proof engine: bisecting a dispute
// between conflicting execution receipts down to a single execution step,
// constructing the compact proof for that step, and verifying such a proof
// by re-executing the step against proven state fragments.
//
// The semantics of domain execution are opaque to this package: the step
// executor is an injected capability, so the engine works with any domain
// virtual machine that can re-run one extrinsic against a key/value view.
package fraud

import (
	"github.com/driftlabs/drift-go/ledger/smt"
)

// StateView is the read interface a step executor runs against. During
// verification the view is backed by a partial trie, so reads outside the
// proven witness set fail with smt.ErrMissingPath.
type StateView interface {
	// Get returns the value stored under the key, nil if the key holds no
	// value.
	Get(key []byte) ([]byte, error)
}

// Write is one key/value effect of executing a step. An empty value removes
// the key.
type Write struct {
	Key   []byte
	Value []byte
}

// StepResult captures the effects of re-executing a single step.
type StepResult struct {
	Writes []Write
}

// StepExecutor re-executes one extrinsic of a bundle against a pre-state
// view. It is supplied by the domain runtime; this package treats it as a
// deterministic black box.
type StepExecutor interface {
	ExecuteStep(view StateView, extrinsic []byte) (*StepResult, error)
}

// partialView adapts a partial trie to the StateView interface.
type partialView struct {
	partial *smt.Partial
}

func (v *partialView) Get(key []byte) ([]byte, error) {
	values, err := v.partial.Get([][]byte{key})
	if err != nil {
		return nil, err
	}
	return values[0], nil
}

// recordingView wraps a full trie and records every key the executor reads;
// the challenger uses it to discover the witness set of the disputed step.
type recordingView struct {
	trie *smt.Trie
	read [][]byte
}

func (v *recordingView) Get(key []byte) ([]byte, error) {
	v.read = append(v.read, append([]byte{}, key...))
	value, _ := v.trie.Get(key)
	return value, nil
}
