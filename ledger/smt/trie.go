// Package smt implements the fixed-depth sparse Merkle trie that commits to
// a domain's key/value state, the storage proofs that let a verifier check a
// single key's value (or absence) against a state root, and the partial trie
// that replays state updates over a set of proven values.
//
// The trie has one level per path bit (256 levels); empty subtrees hash to
// precomputed defaults and a subtree holding a single leaf hashes to the
// leaf's compact value, which keeps tries and proofs proportional to the
// number of populated keys.
package smt

import (
	"fmt"
	"sort"
)

type leaf struct {
	path  Path
	value []byte
}

// Trie is a full in-memory sparse Merkle trie. The challenger side of a
// dispute holds one for its honestly computed state and draws storage proofs
// from it; tests use it to set up state. The verification side never needs
// it: verifiers work from proofs alone.
type Trie struct {
	leaves map[Path][]byte
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{leaves: make(map[Path][]byte)}
}

// Update sets the value stored under a key. Setting an empty value removes
// the key: the trie does not distinguish "empty" from "never written".
func (t *Trie) Update(key []byte, value []byte) {
	path := PathOf(key)
	if len(value) == 0 {
		delete(t.leaves, path)
		return
	}
	t.leaves[path] = append([]byte{}, value...)
}

// Get returns the value stored under a key and whether the key is present.
func (t *Trie) Get(key []byte) ([]byte, bool) {
	value, ok := t.leaves[PathOf(key)]
	return value, ok
}

// Clone returns an independent copy of the trie. Values are copied, so
// updates to either trie never show through the other.
func (t *Trie) Clone() *Trie {
	leaves := make(map[Path][]byte, len(t.leaves))
	for path, value := range t.leaves {
		leaves[path] = append([]byte{}, value...)
	}
	return &Trie{leaves: leaves}
}

// RootHash returns the root commitment over the current state.
func (t *Trie) RootHash() Root {
	return Root(subtreeHash(t.sorted(), 0))
}

// Prove produces a storage proof for the key against the current root: an
// inclusion proof if the key holds a value, an absence proof otherwise.
func (t *Trie) Prove(key []byte) *StorageProof {
	return t.ProveBatch([][]byte{key})[0]
}

// ProveBatch produces one storage proof per key, extended far enough that
// the proofs are node-disjoint: no proof's terminal subtree contains another
// queried key's path. Only node-disjoint batches reconstruct into a partial
// trie that can replay writes to every proven key, so the read/write set of
// a disputed execution step must always be proven through a single batch.
func (t *Trie) ProveBatch(keys [][]byte) []*StorageProof {
	queried := make([]Path, len(keys))
	for i, key := range keys {
		queried[i] = PathOf(key)
	}
	proofs := make([]*StorageProof, len(keys))
	for i, key := range keys {
		proofs[i] = t.prove(key, queried[i], queried)
	}
	return proofs
}

func (t *Trie) prove(key []byte, path Path, queried []Path) *StorageProof {
	remaining := t.sorted()
	rawFlags := makeBitVector(TreeHeight)
	var interims [][32]byte
	steps := 0

	// sharesPrefix reports whether another queried path falls into the
	// current subtree, in which case the walk keeps descending to keep the
	// batch node-disjoint
	sharesPrefix := func(depth int) bool {
		for _, other := range queried {
			if other == path {
				continue
			}
			shared := true
			for j := 0; j < depth; j++ {
				if readBit(other[:], j) != readBit(path[:], j) {
					shared = false
					break
				}
			}
			if shared {
				return true
			}
		}
		return false
	}

	for {
		isolated := len(remaining) == 0 ||
			(len(remaining) == 1 && remaining[0].path == path)
		if isolated && !sharesPrefix(steps) {
			if len(remaining) == 1 {
				// the walk isolated the key's leaf
				return t.finishProof(key, remaining[0].value, true, steps, rawFlags, interims)
			}
			// the walk reached a completely empty subtree
			return t.finishProof(key, nil, false, steps, rawFlags, interims)
		}
		if steps == TreeHeight {
			// two distinct leaves cannot share all 256 path bits
			panic(fmt.Sprintf("duplicate path in trie: %x", path))
		}

		zeros, ones := splitAtBit(remaining, steps)
		ours, others := zeros, ones
		if readBit(path[:], steps) == 1 {
			ours, others = ones, zeros
		}
		if len(others) > 0 {
			setBit(rawFlags, steps)
			interims = append(interims, subtreeHash(others, steps+1))
		}
		remaining = ours
		steps++
	}
}

func (t *Trie) finishProof(key []byte, value []byte, inclusion bool, steps int, rawFlags []byte, interims [][32]byte) *StorageProof {
	flags := makeBitVector(steps)
	copy(flags, rawFlags[:len(flags)])
	var valueCopy []byte
	if inclusion {
		valueCopy = append([]byte{}, value...)
	}
	return &StorageProof{
		Key:       append([]byte{}, key...),
		Value:     valueCopy,
		Inclusion: inclusion,
		Steps:     uint16(steps),
		Flags:     flags,
		Interims:  interims,
	}
}

// sorted returns the populated leaves ordered by path, which lets subtree
// recursion split levels with a single search.
func (t *Trie) sorted() []leaf {
	out := make([]leaf, 0, len(t.leaves))
	for path, value := range t.leaves {
		out = append(out, leaf{path: path, value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		for k := 0; k < PathLength; k++ {
			if out[i].path[k] != out[j].path[k] {
				return out[i].path[k] < out[j].path[k]
			}
		}
		return false
	})
	return out
}

// splitAtBit partitions path-sorted leaves sharing a prefix of `depth` bits
// by their bit at `depth`.
func splitAtBit(leaves []leaf, depth int) ([]leaf, []leaf) {
	split := sort.Search(len(leaves), func(i int) bool {
		return readBit(leaves[i].path[:], depth) == 1
	})
	return leaves[:split], leaves[split:]
}

// subtreeHash computes the hash of the subtree at the given depth holding
// exactly the given path-sorted leaves.
func subtreeHash(leaves []leaf, depth int) [32]byte {
	if len(leaves) == 0 {
		return defaultHash(TreeHeight - depth)
	}
	if len(leaves) == 1 {
		return computeCompactValue(leaves[0].path, leaves[0].value, TreeHeight-depth)
	}
	zeros, ones := splitAtBit(leaves, depth)
	return hashInterior(subtreeHash(zeros, depth+1), subtreeHash(ones, depth+1))
}
