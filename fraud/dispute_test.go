package fraud_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/driftlabs/drift-go/fraud"
	"github.com/driftlabs/drift-go/model/disputes"
	"github.com/driftlabs/drift-go/utils/unittest"
)

func TestDisputeRequiresConflict(t *testing.T) {
	s := newDisputeScenario(t, 3)

	_, err := fraud.NewDispute(s.honestReceipt, s.honestReceipt)
	require.Error(t, err)

	dispute, err := fraud.NewDispute(s.honestReceipt, s.faultyReceipt)
	require.NoError(t, err)
	require.Equal(t, s.faultyReceipt, dispute.Accused())
}

func TestDisputeLifecycle(t *testing.T) {
	s := newDisputeScenario(t, 3)
	dispute, err := fraud.NewDispute(s.honestReceipt, s.faultyReceipt)
	require.NoError(t, err)

	// cannot resolve a dispute without a proof
	require.Error(t, dispute.Resolve(disputes.Accepted()))

	proof, err := s.honest.Challenge(s.faultyReceipt, s.faulty.Oracle(), 10)
	require.NoError(t, err)

	// a proof against a different receipt is refused
	stray := *proof
	stray.TargetReceiptID = unittest.IdentifierFixture()
	require.Error(t, dispute.AttachProof(&stray))
	require.Equal(t, disputes.StatusPending, dispute.Status())

	require.NoError(t, dispute.AttachProof(proof))
	require.Equal(t, disputes.StatusConstructed, dispute.Status())
	require.Equal(t, proof, dispute.Proof())

	// attaching twice is illegal
	require.Error(t, dispute.AttachProof(proof))

	// a non-terminal verdict cannot resolve anything
	require.Error(t, dispute.Resolve(disputes.Verdict{Status: disputes.StatusConstructed}))

	require.NoError(t, dispute.Resolve(disputes.Accepted()))
	require.Equal(t, disputes.StatusAccepted, dispute.Status())
	require.Error(t, dispute.Resolve(disputes.Accepted()))
}
