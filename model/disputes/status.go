// Package disputes models the lifecycle of an execution dispute: the states
// a dispute moves through and the faults a fraud-proof verifier can report.
package disputes

import (
	"fmt"
)

// Status is the state of a dispute over conflicting execution receipts.
//
// The only legal transitions are
//
//	Pending -> Constructed -> Accepted
//	                       -> Rejected
//
// Accepted and Rejected are terminal.
type Status int

const (
	// StatusPending marks a detected conflict awaiting a fraud proof.
	StatusPending Status = iota
	// StatusConstructed marks a dispute whose fraud proof has been built and
	// is awaiting verification.
	StatusConstructed
	// StatusAccepted marks a verified fraud proof: the accused receipt is
	// proven fraudulent.
	StatusAccepted
	// StatusRejected marks a fraud proof that failed verification; the
	// accused receipt stands.
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConstructed:
		return "constructed"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("unknown status (%d)", s)
	}
}

// Terminal returns whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransitionTo returns whether moving from s to next is a legal dispute
// transition.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConstructed
	case StatusConstructed:
		return next == StatusAccepted || next == StatusRejected
	default:
		return false
	}
}

// Verdict is the outcome of verifying a fraud proof. An accepted verdict has
// no fault; a rejected verdict carries the fault explaining the rejection.
type Verdict struct {
	Status Status
	Fault  Fault
}

// Accepted returns the verdict confirming fraud.
func Accepted() Verdict {
	return Verdict{Status: StatusAccepted}
}

// Rejected returns the verdict dismissing a fraud proof for the given fault.
func Rejected(fault Fault) Verdict {
	return Verdict{Status: StatusRejected, Fault: fault}
}

func (v Verdict) String() string {
	if v.Fault == nil {
		return v.Status.String()
	}
	return fmt.Sprintf("%s (%s)", v.Status, v.Fault)
}
