package smt

import (
	"golang.org/x/crypto/sha3"
)

const (
	// PathLength is the fixed byte length of a trie path.
	PathLength = 32
	// TreeHeight is the height of the fully-expanded trie: one level per
	// path bit.
	TreeHeight = PathLength * 8
)

// Path is the fixed-width position of a key in the trie, the SHA3-256 digest
// of the raw key.
type Path [PathLength]byte

// Root is the 32-byte commitment to the full key/value state of the trie.
type Root [32]byte

// hash prefixes separate leaf hashes from interior-node hashes inside the
// trie hash domain.
const (
	leafPrefix     byte = 0x02
	interiorPrefix byte = 0x03
)

// defaultHashes[h] is the hash of a completely empty subtree of height h.
var defaultHashes [TreeHeight + 1][32]byte

func init() {
	defaultHashes[0] = sha3.Sum256([]byte("drift-smt-default-leaf-v1"))
	for h := 1; h <= TreeHeight; h++ {
		defaultHashes[h] = hashInterior(defaultHashes[h-1], defaultHashes[h-1])
	}
}

// PathOf maps a raw key to its trie path.
func PathOf(key []byte) Path {
	return Path(sha3.Sum256(key))
}

// EmptyRoot returns the root of a trie holding no values.
func EmptyRoot() Root {
	return Root(defaultHashes[TreeHeight])
}

func defaultHash(height int) [32]byte {
	return defaultHashes[height]
}

func hashLeaf(path Path, value []byte) [32]byte {
	h := sha3.New256()
	h.Write([]byte{leafPrefix})
	h.Write(path[:])
	h.Write(value)
	var out [32]byte
	h.Sum(out[:0])
	return out
}

func hashInterior(left, right [32]byte) [32]byte {
	h := sha3.New256()
	h.Write([]byte{interiorPrefix})
	h.Write(left[:])
	h.Write(right[:])
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// computeCompactValue lifts the leaf hash of (path, value) to the given
// height by hashing it against default siblings. A subtree that contains a
// single populated leaf hashes to exactly this value, which is what keeps
// proofs compact: a proof stops as soon as the rest of the subtree is known
// to be empty.
func computeCompactValue(path Path, value []byte, height int) [32]byte {
	current := hashLeaf(path, value)
	for h := 1; h <= height; h++ {
		if readBit(path[:], TreeHeight-h) == 0 {
			current = hashInterior(current, defaultHash(h-1))
		} else {
			current = hashInterior(defaultHash(h-1), current)
		}
	}
	return current
}
