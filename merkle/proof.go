package merkle

import (
	"bytes"
)

// Proof captures the sibling hashes needed to recompute the root from one
// leaf. Proofs are externally supplied, untrusted input: Verify rejects
// malformed proofs with an error, it never panics.
type Proof struct {
	// Siblings is the sibling hash at every level, ordered leaf to root.
	// Where the padding rule duplicated a node, the sibling equals the node
	// itself, so verification needs no knowledge of the original item count.
	Siblings [][32]byte
}

// Verify recomputes the root from the leaf, its index and the sibling path,
// and compares it against the expected root. It returns nil when the proof
// is valid, a MalformedProofError when the proof is structurally broken, and
// an InvalidProofError when the recomputed root disagrees.
func (p *Proof) Verify(root Root, leaf []byte, index int) error {
	if index < 0 {
		return NewMalformedProofErrorf("negative leaf index %d", index)
	}
	if len(p.Siblings) >= 64 {
		return NewMalformedProofErrorf("proof depth %d exceeds limit", len(p.Siblings))
	}
	if index>>len(p.Siblings) != 0 {
		return NewMalformedProofErrorf("leaf index %d too large for proof depth %d", index, len(p.Siblings))
	}

	current := hashLeaf(leaf)
	pos := index
	for _, sibling := range p.Siblings {
		if pos&1 == 0 {
			current = hashNode(current, sibling)
		} else {
			current = hashNode(sibling, current)
		}
		pos >>= 1
	}

	if !bytes.Equal(current[:], root[:]) {
		return NewInvalidProofErrorf("root mismatch: expected %x, computed %x", root, current)
	}
	return nil
}
