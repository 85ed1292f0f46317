package disputes

import (
	"fmt"

	"github.com/driftlabs/drift-go/model/domain"
)

// Fault explains why a fraud proof was rejected. Faults describe defects in
// the proof, not in the accused receipt: a proof rejected for any fault
// leaves the accused receipt standing.
type Fault interface {
	// ReceiptID identifies the receipt the rejected proof accused.
	ReceiptID() domain.Identifier
	String() string
}

// FaultMalformedProof is reported when the fraud proof is structurally
// broken: undecodable storage proofs, inconsistent lengths, an extrinsic
// index outside the bundle.
type FaultMalformedProof struct {
	Receipt domain.Identifier
	Err     error
}

func (f FaultMalformedProof) ReceiptID() domain.Identifier { return f.Receipt }

func (f FaultMalformedProof) String() string {
	return fmt.Sprintf("malformed fraud proof against receipt %s: %s", f.Receipt, f.Err)
}

// FaultMismatchedPreState is reported when the supplied storage proofs do
// not reconstruct the agreed pre-step state root.
type FaultMismatchedPreState struct {
	Receipt domain.Identifier
	Err     error
}

func (f FaultMismatchedPreState) ReceiptID() domain.Identifier { return f.Receipt }

func (f FaultMismatchedPreState) String() string {
	return fmt.Sprintf("fraud proof against receipt %s does not reconstruct the pre-step state: %s", f.Receipt, f.Err)
}

// FaultMissingWitness is reported when re-executing the disputed step needed
// a state fragment the proof does not cover.
type FaultMissingWitness struct {
	Receipt domain.Identifier
	Err     error
}

func (f FaultMissingWitness) ReceiptID() domain.Identifier { return f.Receipt }

func (f FaultMissingWitness) String() string {
	return fmt.Sprintf("fraud proof against receipt %s misses witnesses for the disputed step: %s", f.Receipt, f.Err)
}

// FaultInvalidClaim is reported when recomputation agrees with the accused
// receipt: the accused claim is correct and the fraud proof itself is the
// invalid submission. This is the griefing protection.
type FaultInvalidClaim struct {
	Receipt domain.Identifier
}

func (f FaultInvalidClaim) ReceiptID() domain.Identifier { return f.Receipt }

func (f FaultInvalidClaim) String() string {
	return fmt.Sprintf("recomputation confirms receipt %s; the fraud proof is invalid", f.Receipt)
}

// FaultExecutionFailed is reported when the injected step executor could not
// re-execute the disputed step at all.
type FaultExecutionFailed struct {
	Receipt domain.Identifier
	Err     error
}

func (f FaultExecutionFailed) ReceiptID() domain.Identifier { return f.Receipt }

func (f FaultExecutionFailed) String() string {
	return fmt.Sprintf("could not re-execute disputed step of receipt %s: %s", f.Receipt, f.Err)
}
