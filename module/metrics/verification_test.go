package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestVerificationCollector(t *testing.T) {
	vc := NewVerificationCollector(prometheus.NewRegistry())

	vc.OnBundleValidated(true)
	vc.OnBundleValidated(false)
	vc.OnBundleValidated(false)
	vc.OnReceiptValidated(true)
	vc.OnConflictDetected()
	vc.OnFraudProofVerified(true)
	vc.OnFraudProofVerified(false)
	vc.OnBisectionRound()
	vc.OnBisectionRound()
	vc.OnBisectionRound()

	assert.Equal(t, 1.0, testutil.ToFloat64(vc.bundleValidTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(vc.bundleInvalidTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(vc.receiptValidTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(vc.receiptInvalidTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(vc.conflictTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(vc.fraudAcceptedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(vc.fraudRejectedTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(vc.bisectionRoundsTotal))
}
