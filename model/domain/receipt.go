package domain

import (
	"crypto/ed25519"
)

// ExecutionReceipt is an operator's claim about the result of executing one
// bundle: the state root it started from, the state root it arrived at, and
// a commitment to every intermediate root in between. Receipts for the same
// (domain, height) from different operators may legitimately disagree;
// disagreement opens a dispute, it is not an error by itself.
//
// Receipts form a per-domain chain: receipt N's PrevStateRoot must equal
// receipt N-1's NewStateRoot. The chain is anchored at the domain's genesis
// state root at height 0.
type ExecutionReceipt struct {
	// DomainID is the domain whose state transition this receipt claims.
	DomainID DomainID
	// DomainHeight is the position of this receipt in the domain's chain.
	DomainHeight uint64
	// OperatorID identifies the operator making the claim.
	OperatorID OperatorID
	// BundleID references the bundle whose execution is claimed.
	BundleID Identifier
	// PrevStateRoot is the domain state root before executing the bundle.
	PrevStateRoot StateRoot
	// NewStateRoot is the claimed domain state root after execution.
	NewStateRoot StateRoot
	// TraceRoot is the Merkle root over the intermediate state roots, one
	// per execution step; the last leaf equals NewStateRoot. Fraud-proof
	// bisection narrows disagreement over this trace.
	TraceRoot [32]byte
	// MessagesDigest commits to the cross-domain messages emitted during
	// execution. Consumed by the messenger host functions, opaque here.
	MessagesDigest Identifier
	// Signature is the operator's signature over the receipt body.
	Signature []byte
}

// receiptBody is the signed portion of a receipt: everything except the
// signature itself.
type receiptBody struct {
	DomainID       DomainID
	DomainHeight   uint64
	OperatorID     OperatorID
	BundleID       Identifier
	PrevStateRoot  StateRoot
	NewStateRoot   StateRoot
	TraceRoot      [32]byte
	MessagesDigest Identifier
}

func (r *ExecutionReceipt) body() receiptBody {
	return receiptBody{
		DomainID:       r.DomainID,
		DomainHeight:   r.DomainHeight,
		OperatorID:     r.OperatorID,
		BundleID:       r.BundleID,
		PrevStateRoot:  r.PrevStateRoot,
		NewStateRoot:   r.NewStateRoot,
		TraceRoot:      r.TraceRoot,
		MessagesDigest: r.MessagesDigest,
	}
}

// ID returns the content address of the receipt body. Two receipts by
// different operators claiming the same transition have different IDs,
// because the body includes the operator.
func (r *ExecutionReceipt) ID() Identifier {
	return MakeID(r.body())
}

// SigningMessage returns the bytes the operator signs over.
func (r *ExecutionReceipt) SigningMessage() ([]byte, error) {
	data, err := Encode(r.body())
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, receiptSigningTag...), data...), nil
}

// Sign signs the receipt body and stores the signature on the receipt.
func (r *ExecutionReceipt) Sign(key ed25519.PrivateKey) error {
	msg, err := r.SigningMessage()
	if err != nil {
		return err
	}
	r.Signature = ed25519.Sign(key, msg)
	return nil
}
