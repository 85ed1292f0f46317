package fraud

import (
	"fmt"

	"github.com/driftlabs/drift-go/model/disputes"
	"github.com/driftlabs/drift-go/model/domain"
	"github.com/driftlabs/drift-go/validation"
)

// Dispute tracks one detected receipt conflict through its lifecycle:
// pending on detection, constructed once an accusation is attached, then
// accepted or rejected by the verifier's verdict. Transitions outside the
// lifecycle fail, and a decided dispute never changes again.
type Dispute struct {
	local   *domain.ExecutionReceipt
	accused *domain.ExecutionReceipt
	status  disputes.Status
	proof   Accusation
	verdict disputes.Verdict
}

// NewDispute opens a dispute between the local receipt and a conflicting one.
// The receipts must actually conflict: same domain, height and pre-state,
// different operators and resulting roots.
func NewDispute(local *domain.ExecutionReceipt, accused *domain.ExecutionReceipt) (*Dispute, error) {
	if !validation.Conflicting(local, accused) {
		return nil, fmt.Errorf("receipts %s and %s do not conflict", local.ID(), accused.ID())
	}
	return &Dispute{
		local:   local,
		accused: accused,
		status:  disputes.StatusPending,
	}, nil
}

// Status returns the dispute's current state.
func (d *Dispute) Status() disputes.Status {
	return d.status
}

// Accused returns the receipt under accusation.
func (d *Dispute) Accused() *domain.ExecutionReceipt {
	return d.accused
}

// Proof returns the attached accusation, nil while the dispute is pending.
func (d *Dispute) Proof() Accusation {
	return d.proof
}

// Verdict returns the verifier's verdict. Only meaningful once the dispute
// is terminal.
func (d *Dispute) Verdict() disputes.Verdict {
	return d.verdict
}

// AttachProof moves the dispute from pending to constructed with the given
// accusation. The accusation must target the accused receipt.
func (d *Dispute) AttachProof(proof Accusation) error {
	if !d.status.CanTransitionTo(disputes.StatusConstructed) {
		return fmt.Errorf("cannot attach proof to %s dispute", d.status)
	}
	if proof.Target() != d.accused.ID() {
		return fmt.Errorf("proof targets receipt %s, dispute accuses %s",
			proof.Target(), d.accused.ID())
	}
	d.proof = proof
	d.status = disputes.StatusConstructed
	return nil
}

// Resolve moves the dispute to its terminal state per the verifier's verdict.
func (d *Dispute) Resolve(verdict disputes.Verdict) error {
	if !verdict.Status.Terminal() {
		return fmt.Errorf("verdict %s is not a terminal status", verdict.Status)
	}
	if !d.status.CanTransitionTo(verdict.Status) {
		return fmt.Errorf("cannot resolve %s dispute", d.status)
	}
	d.verdict = verdict
	d.status = verdict.Status
	return nil
}
