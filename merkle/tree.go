// Package merkle implements the binary Merkle tree committing to ordered
// sequences of opaque byte strings, and inclusion proofs against the
// resulting root. Bundles commit to their extrinsics with it, and receipts
// commit to their execution trace with it.
//
// Levels with an odd node count duplicate their last node. This padding rule
// is fixed: RootOf, ProofOf and Proof.Verify all derive positions from it,
// and construction and verification must stay in lockstep or every inclusion
// proof in the system breaks.
package merkle

import (
	"golang.org/x/crypto/sha3"
)

// Root is the 32-byte commitment to an ordered sequence of items.
type Root [32]byte

// EmptyRoot is the commitment to the empty sequence.
var EmptyRoot = Root{}

// hash prefixes separate leaves from interior nodes, preventing a proof for
// an interior node from being replayed as a proof for a leaf.
const (
	leafPrefix byte = 0x00
	nodePrefix byte = 0x01
)

func hashLeaf(item []byte) [32]byte {
	h := sha3.New256()
	h.Write([]byte{leafPrefix})
	h.Write(item)
	var out [32]byte
	h.Sum(out[:0])
	return out
}

func hashNode(left, right [32]byte) [32]byte {
	h := sha3.New256()
	h.Write([]byte{nodePrefix})
	h.Write(left[:])
	h.Write(right[:])
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// RootOf computes the Merkle root over the items in the given order. The
// empty sequence commits to EmptyRoot.
func RootOf(items [][]byte) Root {
	if len(items) == 0 {
		return EmptyRoot
	}
	level := make([][32]byte, len(items))
	for i, item := range items {
		level[i] = hashLeaf(item)
	}
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([][32]byte, len(level)/2)
		for i := range next {
			next[i] = hashNode(level[2*i], level[2*i+1])
		}
		level = next
	}
	return Root(level[0])
}

// ProofOf produces the sibling-hash path from leaf `index` to the root.
// It returns a MalformedProofError if the index is out of bounds.
func ProofOf(items [][]byte, index int) (*Proof, error) {
	if index < 0 || index >= len(items) {
		return nil, NewMalformedProofErrorf("leaf index %d out of bounds for %d items", index, len(items))
	}
	level := make([][32]byte, len(items))
	for i, item := range items {
		level[i] = hashLeaf(item)
	}
	var siblings [][32]byte
	pos := index
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		siblings = append(siblings, level[pos^1])
		next := make([][32]byte, len(level)/2)
		for i := range next {
			next[i] = hashNode(level[2*i], level[2*i+1])
		}
		level = next
		pos >>= 1
	}
	return &Proof{Siblings: siblings}, nil
}
