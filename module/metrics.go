// Package module defines the interfaces through which the verification core
// reports to its surroundings.
package module

// VerificationMetrics exposes counters for the outcomes of bundle, receipt
// and fraud-proof verification. Implementations must be safe for concurrent
// use; verification itself runs in parallel across domains.
type VerificationMetrics interface {
	// OnBundleValidated is called once per bundle validity check.
	OnBundleValidated(valid bool)
	// OnReceiptValidated is called once per receipt chain-step check.
	OnReceiptValidated(valid bool)
	// OnConflictDetected is called when two receipts for the same domain
	// height are found to disagree.
	OnConflictDetected()
	// OnFraudProofVerified is called with the outcome of a fraud-proof
	// verification.
	OnFraudProofVerified(accepted bool)
	// OnBisectionRound is called once per bisection round served.
	OnBisectionRound()
}
