package fraud

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/driftlabs/drift-go/merkle"
	"github.com/driftlabs/drift-go/model/domain"
	"github.com/driftlabs/drift-go/module"
)

// TraceOracle answers bisection queries about the opposing party's execution
// trace. Every answer carries a Merkle proof against the opposing receipt's
// trace root, so a lying oracle is caught immediately and cannot steer the
// search.
type TraceOracle interface {
	// RootAt returns the opposing trace's state root after the given step,
	// with its inclusion proof against the opposing trace root.
	RootAt(index int) (domain.StateRoot, *merkle.Proof, error)
}

// Divergence is the outcome of bisecting two execution traces: the first
// step on which they disagree, with the opponent's claims at and before that
// step bound to the opponent's trace root.
type Divergence struct {
	// StepIndex is the first step where the traces disagree.
	StepIndex int
	// PreStateRoot is the last root both traces agree on. PreStateProof binds
	// it to the opposing trace root; it is nil when StepIndex is 0 and the
	// agreed root is the receipt's PrevStateRoot.
	PreStateRoot  domain.StateRoot
	PreStateProof *merkle.Proof
	// ClaimedPostRoot is the opposing trace's root at StepIndex, with its
	// binding proof.
	ClaimedPostRoot domain.StateRoot
	PostStateProof  *merkle.Proof
	// Rounds is the number of narrowing queries the search used.
	Rounds int
}

type traceAnswer struct {
	root  domain.StateRoot
	proof *merkle.Proof
}

// ErrTracesAgree is returned by Bisect when the opposing trace agrees with
// the local trace at every step, so there is no execution divergence to
// dispute. The receipt can still be fraudulent by claiming a NewStateRoot
// its own trace contradicts; see Challenger.ProveInconsistency.
var ErrTracesAgree = errors.New("traces agree")

// Bisect runs the interactive narrowing protocol over two execution traces
// that end in different state roots and returns the first step on which they
// diverge. `local` is our own full trace, `traceRoot` the opposing receipt's
// trace commitment, `prevStateRoot` the state root both receipts execute
// from. The search queries the oracle at most once per halving, so it stays
// within ceil(log2(len(local))) narrowing rounds; `maxRounds` aborts a search
// that would exceed its budget.
func Bisect(
	log zerolog.Logger,
	metrics module.VerificationMetrics,
	local []domain.StateRoot,
	prevStateRoot domain.StateRoot,
	traceRoot [32]byte,
	oracle TraceOracle,
	maxRounds int,
) (*Divergence, error) {

	n := len(local)
	if n == 0 {
		return nil, fmt.Errorf("cannot bisect an empty trace")
	}

	answers := make(map[int]traceAnswer)
	query := func(index int) (traceAnswer, error) {
		if answer, ok := answers[index]; ok {
			return answer, nil
		}
		root, proof, err := oracle.RootAt(index)
		if err != nil {
			return traceAnswer{}, fmt.Errorf("oracle failed at step %d: %w", index, err)
		}
		if proof == nil {
			return traceAnswer{}, fmt.Errorf("oracle answered step %d without a binding proof", index)
		}
		err = proof.Verify(merkle.Root(traceRoot), root[:], index)
		if err != nil {
			return traceAnswer{}, fmt.Errorf("oracle answer at step %d is not bound to the opposing trace: %w", index, err)
		}
		answer := traceAnswer{root: root, proof: proof}
		answers[index] = answer
		return answer, nil
	}

	// invariant: every step below lo agrees, step hi (once queried) disagrees
	lo, hi := 0, n-1
	rounds := 0
	for lo < hi {
		if rounds >= maxRounds {
			return nil, fmt.Errorf("bisection exceeded round budget of %d", maxRounds)
		}
		mid := (lo + hi) / 2
		rounds++
		metrics.OnBisectionRound()

		answer, err := query(mid)
		if err != nil {
			return nil, err
		}
		if answer.root == local[mid] {
			lo = mid + 1
		} else {
			hi = mid
		}
		log.Debug().
			Int("round", rounds).
			Int("mid", mid).
			Int("lo", lo).
			Int("hi", hi).
			Msg("bisection narrowed")
	}

	post, err := query(lo)
	if err != nil {
		return nil, err
	}
	if post.root == local[lo] {
		return nil, fmt.Errorf("%w at step %d, no execution divergence", ErrTracesAgree, lo)
	}

	div := &Divergence{
		StepIndex:       lo,
		PreStateRoot:    prevStateRoot,
		ClaimedPostRoot: post.root,
		PostStateProof:  post.proof,
		Rounds:          rounds,
	}
	if lo > 0 {
		// the search only moves lo past a step it has queried and found in
		// agreement, so this answer is already cached
		pre, err := query(lo - 1)
		if err != nil {
			return nil, err
		}
		if pre.root != local[lo-1] {
			return nil, fmt.Errorf("oracle contradicts itself at step %d", lo-1)
		}
		div.PreStateRoot = pre.root
		div.PreStateProof = pre.proof
	}
	return div, nil
}

// TraceRootOf commits to an execution trace: the Merkle root over the state
// root after every step, in step order.
func TraceRootOf(trace []domain.StateRoot) [32]byte {
	leaves := make([][]byte, len(trace))
	for i := range trace {
		leaves[i] = trace[i][:]
	}
	return merkle.RootOf(leaves)
}

// TraceServer answers bisection queries from a locally held full trace. An
// honest operator runs one per receipt it has published, so challengers can
// bisect against it.
type TraceServer struct {
	trace  []domain.StateRoot
	leaves [][]byte
}

// NewTraceServer creates a server over the given trace.
func NewTraceServer(trace []domain.StateRoot) *TraceServer {
	leaves := make([][]byte, len(trace))
	for i := range trace {
		leaves[i] = trace[i][:]
	}
	return &TraceServer{trace: trace, leaves: leaves}
}

// RootAt serves the root after the given step with its inclusion proof.
func (s *TraceServer) RootAt(index int) (domain.StateRoot, *merkle.Proof, error) {
	if index < 0 || index >= len(s.trace) {
		return domain.EmptyStateRoot, nil, fmt.Errorf("step %d outside trace of length %d", index, len(s.trace))
	}
	proof, err := merkle.ProofOf(s.leaves, index)
	if err != nil {
		return domain.EmptyStateRoot, nil, err
	}
	return s.trace[index], proof, nil
}
