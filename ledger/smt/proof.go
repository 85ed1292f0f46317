package smt

import (
	"bytes"
	"math/bits"
)

// StorageProof proves that a key has a given value, or no value at all,
// under a claimed trie root, without access to the full trie. The proof
// walks from the root towards the key's leaf position; Flags bit j records
// whether the sibling subtree at depth j is non-empty, in which case its
// hash is carried in Interims.
//
// An absence proof has Inclusion=false and a nil Value: it shows the walk
// terminates in a completely empty subtree, i.e. the key was never written.
type StorageProof struct {
	// Key is the raw key the proof speaks about.
	Key []byte
	// Value is the proven value; nil for absence proofs.
	Value []byte
	// Inclusion distinguishes inclusion proofs from absence proofs.
	Inclusion bool
	// Steps is the number of levels the walk descends before the remaining
	// subtree is fully determined.
	Steps uint16
	// Flags has one bit per step; bit j set means the sibling at depth j is
	// non-default and its hash is the next entry of Interims.
	Flags []byte
	// Interims are the hashes of the non-empty sibling subtrees, in walk
	// order.
	Interims [][32]byte
}

// sanityCheck rejects structurally broken proofs before any hashing happens.
func (p *StorageProof) sanityCheck() error {
	if int(p.Steps) > TreeHeight {
		return NewMalformedProofErrorf("steps %d exceed tree height %d", p.Steps, TreeHeight)
	}
	if len(p.Flags) != len(makeBitVector(int(p.Steps))) {
		return NewMalformedProofErrorf("flags length %d doesn't match %d steps", len(p.Flags), p.Steps)
	}
	popCount := 0
	for _, f := range p.Flags {
		popCount += bits.OnesCount8(f)
	}
	if popCount != len(p.Interims) {
		return NewMalformedProofErrorf("%d interim hashes for %d set flags", len(p.Interims), popCount)
	}
	if !p.Inclusion && p.Value != nil {
		return NewMalformedProofErrorf("absence proof carries a value")
	}
	return nil
}

// Verify recomputes the trie root from the proof's terminal subtree upward
// and compares it against the claimed root. The comparison against `root` is
// the final, mandatory check: a proof that is internally consistent but
// rooted at a different node fails here.
func (p *StorageProof) Verify(root Root) error {
	err := p.sanityCheck()
	if err != nil {
		return err
	}

	path := PathOf(p.Key)
	steps := int(p.Steps)

	// hash of the subtree the walk terminates in: the compact single-leaf
	// value for inclusion proofs, the empty-subtree default for absence
	// proofs
	var current [32]byte
	if p.Inclusion {
		current = computeCompactValue(path, p.Value, TreeHeight-steps)
	} else {
		current = defaultHash(TreeHeight - steps)
	}

	// climb back to the root, consuming interim hashes from the last one
	interimIndex := len(p.Interims) - 1
	for j := steps - 1; j >= 0; j-- {
		sibling := defaultHash(TreeHeight - j - 1)
		if readBit(p.Flags, j) == 1 {
			if interimIndex < 0 {
				return NewMalformedProofErrorf("no more interim hashes available to read")
			}
			sibling = p.Interims[interimIndex]
			interimIndex--
		}
		if readBit(path[:], j) == 0 {
			current = hashInterior(current, sibling)
		} else {
			current = hashInterior(sibling, current)
		}
	}

	if !bytes.Equal(current[:], root[:]) {
		return NewInvalidProofErrorf("root mismatch: expected %x, computed %x", root, current)
	}
	return nil
}
