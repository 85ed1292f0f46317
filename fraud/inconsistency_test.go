package fraud_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/drift-go/fraud"
	"github.com/driftlabs/drift-go/ledger/smt"
	"github.com/driftlabs/drift-go/merkle"
	"github.com/driftlabs/drift-go/model/disputes"
	"github.com/driftlabs/drift-go/model/domain"
	"github.com/driftlabs/drift-go/module/metrics"
	"github.com/driftlabs/drift-go/utils/unittest"
	"github.com/driftlabs/drift-go/validation"
)

// lyingReceipt builds a receipt that commits to the correct execution trace
// but claims a fabricated resulting state root. Bisection cannot touch it,
// since step by step the trace genuinely agrees with honest execution.
func lyingReceipt(t *testing.T, s *disputeScenario) *domain.ExecutionReceipt {
	receipt := &domain.ExecutionReceipt{
		DomainID:       s.bundle.Header.DomainID,
		DomainHeight:   s.height,
		OperatorID:     s.faultyOp,
		BundleID:       s.bundle.ID(),
		PrevStateRoot:  s.prevRoot,
		NewStateRoot:   unittest.StateRootFixture(),
		TraceRoot:      s.honest.TraceRoot(),
		MessagesDigest: domain.ZeroID,
	}
	require.NoError(t, receipt.Sign(s.faultyKey))
	return receipt
}

// TestInconsistentReceiptDisputed covers the receipt that lies about its
// NewStateRoot while committing to the honest trace: bisection finds no
// divergence, the inconsistency proof convicts it instead, and the dispute
// still reaches its terminal state.
func TestInconsistentReceiptDisputed(t *testing.T) {
	s := newDisputeScenario(t, 3)
	accused := lyingReceipt(t, s)

	require.True(t, validation.Conflicting(s.honestReceipt, accused))

	// the committed trace agrees with honest execution at every step
	_, err := s.honest.Challenge(accused, s.honest.Oracle(), 10)
	require.ErrorIs(t, err, fraud.ErrTracesAgree)

	proof, err := s.honest.ProveInconsistency(accused, s.honest.Oracle())
	require.NoError(t, err)
	require.NotNil(t, proof.FinalStateProof)
	assert.Equal(t, accused.ID(), proof.Target())
	assert.Equal(t, s.honest.NewStateRoot(), proof.FinalStateRoot)

	dispute, err := fraud.NewDispute(s.honestReceipt, accused)
	require.NoError(t, err)
	require.NoError(t, dispute.AttachProof(proof))
	require.Equal(t, disputes.StatusConstructed, dispute.Status())

	verdict := newVerifier(kvExecutor{}).VerifyInconsistency(proof, accused, s.bundle)
	assert.Equal(t, disputes.StatusAccepted, verdict.Status)

	require.NoError(t, dispute.Resolve(verdict))
	require.True(t, dispute.Status().Terminal())
}

// TestInconsistencyAgainstConsistentReceipt checks both ends of the griefing
// protection: a consistent receipt yields no proof, and a hand-built proof
// against it bounces off as an invalid claim.
func TestInconsistencyAgainstConsistentReceipt(t *testing.T) {
	s := newDisputeScenario(t, 3)

	_, err := s.faulty.ProveInconsistency(s.faultyReceipt, s.faulty.Oracle())
	require.Error(t, err)

	steps := len(s.bundle.Extrinsics)
	final, finalProof, err := s.honest.Oracle().RootAt(steps - 1)
	require.NoError(t, err)
	proof := &fraud.InconsistencyProof{
		DomainID:        s.honestReceipt.DomainID,
		DomainHeight:    s.honestReceipt.DomainHeight,
		TargetReceiptID: s.honestReceipt.ID(),
		FinalStateRoot:  final,
		FinalStateProof: finalProof,
	}

	verdict := newVerifier(kvExecutor{}).VerifyInconsistency(proof, s.honestReceipt, s.bundle)
	assert.Equal(t, disputes.StatusRejected, verdict.Status)
	assert.IsType(t, disputes.FaultInvalidClaim{}, verdict.Fault)
}

// TestInconsistencyProofDefects feeds structurally broken inconsistency
// proofs to the verifier; each must be rejected as malformed, never accepted.
func TestInconsistencyProofDefects(t *testing.T) {
	s := newDisputeScenario(t, 3)
	accused := lyingReceipt(t, s)

	sound, err := s.honest.ProveInconsistency(accused, s.honest.Oracle())
	require.NoError(t, err)
	verifier := newVerifier(kvExecutor{})

	t.Run("wrong target", func(t *testing.T) {
		broken := *sound
		broken.TargetReceiptID = unittest.IdentifierFixture()
		verdict := verifier.VerifyInconsistency(&broken, accused, s.bundle)
		assert.Equal(t, disputes.StatusRejected, verdict.Status)
		assert.IsType(t, disputes.FaultMalformedProof{}, verdict.Fault)
	})

	t.Run("missing final binding proof", func(t *testing.T) {
		broken := *sound
		broken.FinalStateProof = nil
		verdict := verifier.VerifyInconsistency(&broken, accused, s.bundle)
		assert.Equal(t, disputes.StatusRejected, verdict.Status)
		assert.IsType(t, disputes.FaultMalformedProof{}, verdict.Fault)
	})

	t.Run("unbound final root", func(t *testing.T) {
		broken := *sound
		broken.FinalStateRoot = unittest.StateRootFixture()
		verdict := verifier.VerifyInconsistency(&broken, accused, s.bundle)
		assert.Equal(t, disputes.StatusRejected, verdict.Status)
		assert.IsType(t, disputes.FaultMalformedProof{}, verdict.Fault)
	})

	t.Run("wrong bundle", func(t *testing.T) {
		other := unittest.BundleFixture(t, s.bundle.Header.DomainID, s.faultyOp, s.faultyKey,
			unittest.ExtrinsicsFixture(2), unittest.IdentifierFixture(), 0)
		verdict := verifier.VerifyInconsistency(sound, accused, other)
		assert.Equal(t, disputes.StatusRejected, verdict.Status)
		assert.IsType(t, disputes.FaultMalformedProof{}, verdict.Fault)
	})
}

// TestEmptyBundleInconsistency pins the rule for bundles without extrinsics:
// the receipt must carry its pre-state forward and commit to the empty trace,
// anything else is inconsistent without any trace binding.
func TestEmptyBundleInconsistency(t *testing.T) {
	log := unittest.Logger()

	registry := domain.NewRegistry()
	operator, key := unittest.OperatorFixture(t, registry)
	dom := domain.DomainID(7)
	bundle := unittest.BundleFixture(t, dom, operator, key, nil, unittest.IdentifierFixture(), 0)

	preState := smt.NewTrie()
	for i := 0; i < 4; i++ {
		preState.Update([]byte(fmt.Sprintf("acct-%d", i)), []byte(fmt.Sprintf("balance-%d", i)))
	}
	prevRoot := domain.StateRoot(preState.RootHash())

	challenger, err := fraud.NewChallenger(log, metrics.NewNoopCollector(), kvExecutor{}, bundle, preState)
	require.NoError(t, err)

	consistent := unittest.ReceiptFixture(t, bundle, operator, key, 1, prevRoot, nil)
	require.Equal(t, [32]byte(merkle.EmptyRoot), consistent.TraceRoot)
	_, err = challenger.ProveInconsistency(consistent, challenger.Oracle())
	require.Error(t, err)

	accused := &domain.ExecutionReceipt{
		DomainID:       dom,
		DomainHeight:   1,
		OperatorID:     operator,
		BundleID:       bundle.ID(),
		PrevStateRoot:  prevRoot,
		NewStateRoot:   unittest.StateRootFixture(),
		TraceRoot:      [32]byte(merkle.EmptyRoot),
		MessagesDigest: domain.ZeroID,
	}
	require.NoError(t, accused.Sign(key))

	proof, err := challenger.ProveInconsistency(accused, challenger.Oracle())
	require.NoError(t, err)
	require.Nil(t, proof.FinalStateProof)

	verifier := newVerifier(kvExecutor{})
	verdict := verifier.VerifyInconsistency(proof, accused, bundle)
	assert.Equal(t, disputes.StatusAccepted, verdict.Status)

	// against the consistent receipt the same bare proof is an invalid claim
	proof.TargetReceiptID = consistent.ID()
	verdict = verifier.VerifyInconsistency(proof, consistent, bundle)
	assert.Equal(t, disputes.StatusRejected, verdict.Status)
	assert.IsType(t, disputes.FaultInvalidClaim{}, verdict.Fault)
}
