package fraud

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/driftlabs/drift-go/ledger/smt"
	"github.com/driftlabs/drift-go/merkle"
	"github.com/driftlabs/drift-go/model/domain"
	"github.com/driftlabs/drift-go/module"
)

// Challenger is the honest party's side of a dispute. It executes a bundle
// step by step from the agreed pre-state, keeps a snapshot of the state
// before every step, and from those snapshots drives bisection against a
// conflicting receipt and constructs the single-step fraud proof.
type Challenger struct {
	log      zerolog.Logger
	metrics  module.VerificationMetrics
	executor StepExecutor
	bundle   *domain.Bundle
	preRoot  domain.StateRoot
	states   []*smt.Trie
	trace    []domain.StateRoot
}

// NewChallenger executes the bundle's extrinsics from the given pre-state and
// records the full execution trace. The pre-state trie is cloned, the caller
// keeps ownership of it.
func NewChallenger(
	log zerolog.Logger,
	metrics module.VerificationMetrics,
	executor StepExecutor,
	bundle *domain.Bundle,
	preState *smt.Trie,
) (*Challenger, error) {

	state := preState.Clone()
	states := make([]*smt.Trie, 0, len(bundle.Extrinsics))
	trace := make([]domain.StateRoot, 0, len(bundle.Extrinsics))
	for i, extrinsic := range bundle.Extrinsics {
		states = append(states, state.Clone())
		view := &recordingView{trie: state}
		result, err := executor.ExecuteStep(view, extrinsic)
		if err != nil {
			return nil, fmt.Errorf("could not execute step %d: %w", i, err)
		}
		for _, write := range result.Writes {
			state.Update(write.Key, write.Value)
		}
		trace = append(trace, domain.StateRoot(state.RootHash()))
	}

	return &Challenger{
		log:      log.With().Str("component", "challenger").Logger(),
		metrics:  metrics,
		executor: executor,
		bundle:   bundle,
		preRoot:  domain.StateRoot(preState.RootHash()),
		states:   states,
		trace:    trace,
	}, nil
}

// Trace returns a copy of the execution trace.
func (c *Challenger) Trace() []domain.StateRoot {
	return append([]domain.StateRoot{}, c.trace...)
}

// TraceRoot returns the commitment over the execution trace.
func (c *Challenger) TraceRoot() [32]byte {
	return TraceRootOf(c.trace)
}

// NewStateRoot returns the state root after executing the whole bundle.
func (c *Challenger) NewStateRoot() domain.StateRoot {
	if len(c.trace) == 0 {
		return c.preRoot
	}
	return c.trace[len(c.trace)-1]
}

// Oracle returns a trace oracle over the challenger's own trace, for the
// opposing party to bisect against.
func (c *Challenger) Oracle() TraceOracle {
	return NewTraceServer(c.trace)
}

// Challenge bisects the challenger's trace against the accused receipt
// through the given oracle and constructs the fraud proof for the first
// diverging step. When the accused trace agrees with local execution at
// every step, the error wraps ErrTracesAgree and the conflict must instead
// be proven through ProveInconsistency: the accused lied about NewStateRoot,
// not about execution.
func (c *Challenger) Challenge(
	accused *domain.ExecutionReceipt,
	oracle TraceOracle,
	maxRounds int,
) (*FraudProof, error) {

	if accused.BundleID != c.bundle.ID() {
		return nil, fmt.Errorf("accused receipt claims bundle %s, challenger executed %s",
			accused.BundleID, c.bundle.ID())
	}
	if accused.PrevStateRoot != c.preRoot {
		return nil, fmt.Errorf("accused receipt executes from %s, challenger from %s",
			accused.PrevStateRoot, c.preRoot)
	}
	if accused.NewStateRoot == c.NewStateRoot() {
		return nil, fmt.Errorf("accused receipt agrees with local execution, nothing to dispute")
	}

	divergence, err := Bisect(c.log, c.metrics, c.trace, c.preRoot, accused.TraceRoot, oracle, maxRounds)
	if err != nil {
		return nil, fmt.Errorf("could not bisect traces: %w", err)
	}
	c.log.Info().
		Int("step", divergence.StepIndex).
		Int("rounds", divergence.Rounds).
		Msg("traces diverge")

	return c.buildProof(accused, divergence)
}

// ProveInconsistency builds the proof that the accused receipt's
// NewStateRoot contradicts the accused's own trace commitment. This is the
// accusation to file when Challenge reports the traces agree: the operator
// committed the correct trace but claimed a different resulting state root.
func (c *Challenger) ProveInconsistency(
	accused *domain.ExecutionReceipt,
	oracle TraceOracle,
) (*InconsistencyProof, error) {

	if accused.BundleID != c.bundle.ID() {
		return nil, fmt.Errorf("accused receipt claims bundle %s, challenger executed %s",
			accused.BundleID, c.bundle.ID())
	}

	proof := &InconsistencyProof{
		DomainID:        accused.DomainID,
		DomainHeight:    accused.DomainHeight,
		TargetReceiptID: accused.ID(),
	}

	steps := len(c.bundle.Extrinsics)
	if steps == 0 {
		// an empty bundle commits to an empty trace and leaves the state
		// untouched; anything else on the receipt is inconsistent on its face
		if accused.NewStateRoot == accused.PrevStateRoot && accused.TraceRoot == [32]byte(merkle.EmptyRoot) {
			return nil, fmt.Errorf("receipt is consistent, nothing to prove")
		}
		return proof, nil
	}

	final, finalProof, err := oracle.RootAt(steps - 1)
	if err != nil {
		return nil, fmt.Errorf("oracle failed at final step %d: %w", steps-1, err)
	}
	if finalProof == nil {
		return nil, fmt.Errorf("oracle answered final step without a binding proof")
	}
	err = finalProof.Verify(merkle.Root(accused.TraceRoot), final[:], steps-1)
	if err != nil {
		return nil, fmt.Errorf("oracle answer at final step is not bound to the accused trace: %w", err)
	}
	if final == accused.NewStateRoot {
		return nil, fmt.Errorf("accused trace ends in the claimed state root, nothing to prove")
	}

	proof.FinalStateRoot = final
	proof.FinalStateProof = finalProof
	return proof, nil
}

func (c *Challenger) buildProof(accused *domain.ExecutionReceipt, divergence *Divergence) (*FraudProof, error) {

	index := divergence.StepIndex
	state := c.states[index].Clone()
	if domain.StateRoot(state.RootHash()) != divergence.PreStateRoot {
		return nil, fmt.Errorf("agreed pre-state %s does not match local state before step %d",
			divergence.PreStateRoot, index)
	}

	// dry-run the step to discover its read set; the writes determine which
	// further keys the verifier must be able to update
	view := &recordingView{trie: state}
	result, err := c.executor.ExecuteStep(view, c.bundle.Extrinsics[index])
	if err != nil {
		return nil, fmt.Errorf("could not re-execute step %d: %w", index, err)
	}
	witnessKeys := view.read
	for _, write := range result.Writes {
		witnessKeys = append(witnessKeys, write.Key)
	}
	witnessKeys = dedupeKeys(witnessKeys)

	// the whole witness set goes through one batch so the proofs come out
	// node-disjoint and the verifier can replay the writes
	witness := state.ProveBatch(witnessKeys)

	extrinsicProof, err := merkle.ProofOf(c.bundle.Extrinsics, index)
	if err != nil {
		return nil, fmt.Errorf("could not prove extrinsic %d: %w", index, err)
	}

	return &FraudProof{
		DomainID:        accused.DomainID,
		DomainHeight:    accused.DomainHeight,
		TargetReceiptID: accused.ID(),
		StepIndex:       uint32(index),
		PreStateRoot:    divergence.PreStateRoot,
		PreStateProof:   divergence.PreStateProof,
		ClaimedPostRoot: divergence.ClaimedPostRoot,
		PostStateProof:  divergence.PostStateProof,
		StepExtrinsic:   append([]byte{}, c.bundle.Extrinsics[index]...),
		ExtrinsicProof:  extrinsicProof,
		Witness:         witness,
	}, nil
}

func dedupeKeys(keys [][]byte) [][]byte {
	seen := make(map[smt.Path]struct{}, len(keys))
	out := make([][]byte, 0, len(keys))
	for _, key := range keys {
		path := smt.PathOf(key)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, key)
	}
	return out
}
