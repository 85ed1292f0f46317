package disputes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftlabs/drift-go/model/disputes"
)

func TestStatusTransitions(t *testing.T) {
	allowed := map[disputes.Status][]disputes.Status{
		disputes.StatusPending:     {disputes.StatusConstructed},
		disputes.StatusConstructed: {disputes.StatusAccepted, disputes.StatusRejected},
		disputes.StatusAccepted:    {},
		disputes.StatusRejected:    {},
	}
	all := []disputes.Status{
		disputes.StatusPending,
		disputes.StatusConstructed,
		disputes.StatusAccepted,
		disputes.StatusRejected,
	}

	for from, nexts := range allowed {
		legal := make(map[disputes.Status]struct{})
		for _, next := range nexts {
			legal[next] = struct{}{}
		}
		for _, to := range all {
			_, ok := legal[to]
			assert.Equal(t, ok, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, disputes.StatusPending.Terminal())
	assert.False(t, disputes.StatusConstructed.Terminal())
	assert.True(t, disputes.StatusAccepted.Terminal())
	assert.True(t, disputes.StatusRejected.Terminal())
}

func TestVerdicts(t *testing.T) {
	accepted := disputes.Accepted()
	assert.Equal(t, disputes.StatusAccepted, accepted.Status)
	assert.Nil(t, accepted.Fault)

	rejected := disputes.Rejected(disputes.FaultInvalidClaim{})
	assert.Equal(t, disputes.StatusRejected, rejected.Status)
	assert.NotNil(t, rejected.Fault)
	assert.Contains(t, rejected.String(), "rejected")
}
