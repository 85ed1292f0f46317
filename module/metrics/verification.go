// Package metrics provides the Prometheus-backed implementation of the
// module metrics interfaces, plus a no-op implementation for tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespaceVerification = "verification"

const (
	subsystemBundle  = "bundle"
	subsystemReceipt = "receipt"
	subsystemFraud   = "fraudproof"
)

// VerificationCollector tracks the outcomes of bundle, receipt and
// fraud-proof verification.
type VerificationCollector struct {
	bundleValidTotal     prometheus.Counter
	bundleInvalidTotal   prometheus.Counter
	receiptValidTotal    prometheus.Counter
	receiptInvalidTotal  prometheus.Counter
	conflictTotal        prometheus.Counter
	fraudAcceptedTotal   prometheus.Counter
	fraudRejectedTotal   prometheus.Counter
	bisectionRoundsTotal prometheus.Counter
}

func NewVerificationCollector(registerer prometheus.Registerer) *VerificationCollector {
	vc := &VerificationCollector{
		bundleValidTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "valid_total",
			Namespace: namespaceVerification,
			Subsystem: subsystemBundle,
			Help:      "total bundles that passed validation",
		}),
		bundleInvalidTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "invalid_total",
			Namespace: namespaceVerification,
			Subsystem: subsystemBundle,
			Help:      "total bundles rejected by validation",
		}),
		receiptValidTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "valid_total",
			Namespace: namespaceVerification,
			Subsystem: subsystemReceipt,
			Help:      "total receipt chain steps that passed validation",
		}),
		receiptInvalidTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "invalid_total",
			Namespace: namespaceVerification,
			Subsystem: subsystemReceipt,
			Help:      "total receipt chain steps rejected by validation",
		}),
		conflictTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "conflicts_total",
			Namespace: namespaceVerification,
			Subsystem: subsystemReceipt,
			Help:      "total conflicting receipt pairs detected",
		}),
		fraudAcceptedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "accepted_total",
			Namespace: namespaceVerification,
			Subsystem: subsystemFraud,
			Help:      "total fraud proofs verified and accepted",
		}),
		fraudRejectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "rejected_total",
			Namespace: namespaceVerification,
			Subsystem: subsystemFraud,
			Help:      "total fraud proofs rejected",
		}),
		bisectionRoundsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "bisection_rounds_total",
			Namespace: namespaceVerification,
			Subsystem: subsystemFraud,
			Help:      "total bisection rounds served across all disputes",
		}),
	}

	registerer.MustRegister(
		vc.bundleValidTotal,
		vc.bundleInvalidTotal,
		vc.receiptValidTotal,
		vc.receiptInvalidTotal,
		vc.conflictTotal,
		vc.fraudAcceptedTotal,
		vc.fraudRejectedTotal,
		vc.bisectionRoundsTotal,
	)
	return vc
}

func (vc *VerificationCollector) OnBundleValidated(valid bool) {
	if valid {
		vc.bundleValidTotal.Inc()
		return
	}
	vc.bundleInvalidTotal.Inc()
}

func (vc *VerificationCollector) OnReceiptValidated(valid bool) {
	if valid {
		vc.receiptValidTotal.Inc()
		return
	}
	vc.receiptInvalidTotal.Inc()
}

func (vc *VerificationCollector) OnConflictDetected() {
	vc.conflictTotal.Inc()
}

func (vc *VerificationCollector) OnFraudProofVerified(accepted bool) {
	if accepted {
		vc.fraudAcceptedTotal.Inc()
		return
	}
	vc.fraudRejectedTotal.Inc()
}

func (vc *VerificationCollector) OnBisectionRound() {
	vc.bisectionRoundsTotal.Inc()
}
