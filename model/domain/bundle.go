package domain

import (
	"crypto/ed25519"
)

// signing tags provide domain separation between signature payloads, so a
// signature over a bundle header can never double as one over a receipt.
var (
	bundleSigningTag  = []byte("drift-bundle-header-v1")
	receiptSigningTag = []byte("drift-execution-receipt-v1")
)

// BundleHeader carries the metadata an operator commits to when it submits a
// bundle of domain extrinsics. The header, not the extrinsic payloads, is
// what the operator signs; the payloads are bound through ExtrinsicsRoot.
type BundleHeader struct {
	// DomainID is the execution domain the bundle belongs to.
	DomainID DomainID
	// OperatorID identifies the operator that produced the bundle.
	OperatorID OperatorID
	// ConsensusBlockHash references the consensus-chain block the bundle was
	// built against.
	ConsensusBlockHash Identifier
	// ConsensusBlockHeight is the height of the referenced consensus block.
	ConsensusBlockHeight uint64
	// ExtrinsicsRoot is the Merkle root over the bundle's ordered extrinsics.
	ExtrinsicsRoot [32]byte
}

// Bundle is an ordered batch of opaque domain transactions together with the
// signed header binding them to a domain, an operator and a consensus block.
// Bundles are created once per domain block slot and never mutated.
type Bundle struct {
	Header BundleHeader
	// Signature is the operator's signature over the canonical header
	// encoding (see SigningMessage).
	Signature []byte
	// Extrinsics are the opaque domain transactions, in execution order.
	Extrinsics [][]byte
}

// ID returns the content address of the bundle header. Extrinsics are
// covered transitively through Header.ExtrinsicsRoot.
func (b *Bundle) ID() Identifier {
	return MakeID(b.Header)
}

// SigningMessage returns the bytes an operator signs when submitting the
// bundle.
func (h *BundleHeader) SigningMessage() ([]byte, error) {
	data, err := Encode(h)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, bundleSigningTag...), data...), nil
}

// Sign signs the bundle header with the operator's private key and stores
// the signature on the bundle.
func (b *Bundle) Sign(key ed25519.PrivateKey) error {
	msg, err := b.Header.SigningMessage()
	if err != nil {
		return err
	}
	b.Signature = ed25519.Sign(key, msg)
	return nil
}
