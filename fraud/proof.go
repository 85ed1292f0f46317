package fraud

import (
	"github.com/driftlabs/drift-go/ledger/smt"
	"github.com/driftlabs/drift-go/merkle"
	"github.com/driftlabs/drift-go/model/domain"
)

// FraudProof accuses one execution receipt of committing to a wrong state
// root after a single execution step. It is self-contained: together with the
// accused receipt and its bundle, a verifier can check the accusation by
// recomputing exactly one step, without any access to domain state.
type FraudProof struct {
	// DomainID and DomainHeight locate the disputed state transition.
	DomainID     domain.DomainID
	DomainHeight uint64
	// TargetReceiptID identifies the accused receipt.
	TargetReceiptID domain.Identifier
	// StepIndex is the first execution step on which the challenger's trace
	// diverges from the accused trace.
	StepIndex uint32
	// PreStateRoot is the state root both traces agree on before the disputed
	// step: the accused trace's leaf StepIndex-1, or the receipt's
	// PrevStateRoot when StepIndex is 0.
	PreStateRoot domain.StateRoot
	// PreStateProof binds PreStateRoot to the accused TraceRoot at leaf
	// StepIndex-1. Nil exactly when StepIndex is 0.
	PreStateProof *merkle.Proof
	// ClaimedPostRoot is the accused trace's leaf at StepIndex, the root the
	// proof claims to be wrong.
	ClaimedPostRoot domain.StateRoot
	// PostStateProof binds ClaimedPostRoot to the accused TraceRoot.
	PostStateProof *merkle.Proof
	// StepExtrinsic is the extrinsic executed at the disputed step.
	StepExtrinsic []byte
	// ExtrinsicProof binds StepExtrinsic to the bundle's extrinsics root at
	// StepIndex.
	ExtrinsicProof *merkle.Proof
	// Witness is a node-disjoint batch of storage proofs against PreStateRoot
	// covering every key the disputed step reads or writes.
	Witness []*smt.StorageProof
}

// ID returns the content address of the fraud proof.
func (fp *FraudProof) ID() domain.Identifier {
	return domain.MakeID(fp)
}

// Target returns the accused receipt.
func (fp *FraudProof) Target() domain.Identifier {
	return fp.TargetReceiptID
}

// InconsistencyProof accuses a receipt of contradicting its own trace
// commitment: the final leaf of the trace, proven against the receipt's
// TraceRoot, is not the NewStateRoot the receipt claims. Without this proof
// kind an operator could commit the correct trace with a fabricated
// NewStateRoot and be immune to bisection, since the traces genuinely agree.
type InconsistencyProof struct {
	// DomainID and DomainHeight locate the disputed state transition.
	DomainID     domain.DomainID
	DomainHeight uint64
	// TargetReceiptID identifies the accused receipt.
	TargetReceiptID domain.Identifier
	// FinalStateRoot is the accused trace's last leaf, bound to the accused
	// TraceRoot by FinalStateProof. Both are nil-value for empty bundles,
	// where the trace has no leaves and the receipt must simply carry its
	// pre-state forward.
	FinalStateRoot  domain.StateRoot
	FinalStateProof *merkle.Proof
}

// ID returns the content address of the inconsistency proof.
func (p *InconsistencyProof) ID() domain.Identifier {
	return domain.MakeID(p)
}

// Target returns the accused receipt.
func (p *InconsistencyProof) Target() domain.Identifier {
	return p.TargetReceiptID
}

// Accusation is a verifiable claim that a specific receipt is fraudulent:
// either a re-executable step divergence (FraudProof) or a receipt that
// contradicts its own trace commitment (InconsistencyProof).
type Accusation interface {
	// Target identifies the accused receipt.
	Target() domain.Identifier
}
