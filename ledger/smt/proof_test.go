package smt_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/drift-go/ledger/smt"
)

// TestProofRejectedUnderDifferentRoot checks the classic trie-proof attack:
// a proof valid for root R1 must be rejected against a different root R2,
// even though R2 is itself a valid root of some other state.
func TestProofRejectedUnderDifferentRoot(t *testing.T) {
	trieA := populatedTrie(8)
	trieB := populatedTrie(8)
	trieB.Update([]byte("key-3"), []byte("tampered"))

	rootA := trieA.RootHash()
	rootB := trieB.RootHash()
	require.NotEqual(t, rootA, rootB)

	proof := trieA.Prove([]byte("key-0"))
	require.NoError(t, proof.Verify(rootA))

	err := proof.Verify(rootB)
	assert.True(t, smt.IsInvalidProofError(err))
}

// TestForgedPresence checks that turning a valid absence proof into a claim
// that the key holds a value fails verification.
func TestForgedPresence(t *testing.T) {
	trie := populatedTrie(6)
	root := trie.RootHash()

	forged := trie.Prove([]byte("missing-key"))
	require.False(t, forged.Inclusion)
	forged.Inclusion = true
	forged.Value = []byte("conjured value")

	err := forged.Verify(root)
	assert.True(t, smt.IsInvalidProofError(err))
}

// TestProofValueTampering checks that any change to the proven value or to
// an interim hash invalidates the proof.
func TestProofValueTampering(t *testing.T) {
	trie := populatedTrie(6)
	root := trie.RootHash()

	t.Run("tampered value", func(t *testing.T) {
		proof := trie.Prove([]byte("key-2"))
		proof.Value[0] ^= 0xff
		err := proof.Verify(root)
		assert.True(t, smt.IsInvalidProofError(err))
	})

	t.Run("tampered interim", func(t *testing.T) {
		proof := trie.Prove([]byte("key-2"))
		require.NotEmpty(t, proof.Interims)
		proof.Interims[0][7] ^= 0xff
		err := proof.Verify(root)
		assert.True(t, smt.IsInvalidProofError(err))
	})

	t.Run("tampered key", func(t *testing.T) {
		proof := trie.Prove([]byte("key-2"))
		proof.Key = []byte("key-4")
		err := proof.Verify(root)
		assert.True(t, smt.IsInvalidProofError(err))
	})
}

// TestMalformedStorageProofs checks that structurally broken proofs are
// rejected before any root comparison, and never panic.
func TestMalformedStorageProofs(t *testing.T) {
	trie := populatedTrie(6)
	root := trie.RootHash()

	t.Run("oversized steps", func(t *testing.T) {
		proof := trie.Prove([]byte("key-1"))
		proof.Steps = smt.TreeHeight + 1
		err := proof.Verify(root)
		assert.True(t, smt.IsMalformedProofError(err))
	})

	t.Run("flag count mismatch", func(t *testing.T) {
		proof := trie.Prove([]byte("key-1"))
		proof.Flags = append(proof.Flags, 0x00)
		err := proof.Verify(root)
		assert.True(t, smt.IsMalformedProofError(err))
	})

	t.Run("dropped interim", func(t *testing.T) {
		proof := trie.Prove([]byte("key-1"))
		require.NotEmpty(t, proof.Interims)
		proof.Interims = proof.Interims[:len(proof.Interims)-1]
		err := proof.Verify(root)
		assert.True(t, smt.IsMalformedProofError(err))
	})

	t.Run("absence proof with value", func(t *testing.T) {
		proof := trie.Prove([]byte("missing"))
		proof.Value = []byte("sneaky")
		err := proof.Verify(root)
		assert.True(t, smt.IsMalformedProofError(err))
	})
}

// TestProofsAcrossGrowingState verifies proofs stay bound to the exact state
// they were produced against while the trie keeps growing.
func TestProofsAcrossGrowingState(t *testing.T) {
	trie := smt.NewTrie()
	var roots []smt.Root
	var proofs []*smt.StorageProof
	for i := 0; i < 20; i++ {
		trie.Update([]byte(fmt.Sprintf("k%d", i)), []byte(fmt.Sprintf("v%d", i)))
		roots = append(roots, trie.RootHash())
		proofs = append(proofs, trie.Prove([]byte(fmt.Sprintf("k%d", i))))
	}
	for i := range proofs {
		// each proof was taken right after insertion i and must only verify
		// against that root
		assert.NoError(t, proofs[i].Verify(roots[i]))
		if i < len(roots)-1 {
			assert.Error(t, proofs[i].Verify(roots[len(roots)-1]))
		}
	}
}
