package smt_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/drift-go/ledger/smt"
)

// TestPartialFromProofs checks that a partial trie built from a batch of
// proofs reconstructs the claimed root and serves the proven values.
func TestPartialFromProofs(t *testing.T) {
	trie := populatedTrie(20)
	root := trie.RootHash()

	keys := [][]byte{[]byte("key-1"), []byte("key-7"), []byte("key-13"), []byte("not-there")}
	proofs := trie.ProveBatch(keys)

	partial, err := smt.NewPartial(root, proofs)
	require.NoError(t, err)
	assert.Equal(t, root, partial.RootHash())

	values, err := partial.Get(keys)
	require.NoError(t, err)
	assert.Equal(t, []byte("value-1"), values[0])
	assert.Equal(t, []byte("value-7"), values[1])
	assert.Equal(t, []byte("value-13"), values[2])
	assert.Nil(t, values[3], "absence-proven key reads as empty")
}

// TestPartialRejectsWrongRoot checks that internally consistent proofs are
// rejected when claimed against a root they do not belong to.
func TestPartialRejectsWrongRoot(t *testing.T) {
	trie := populatedTrie(10)
	proofs := []*smt.StorageProof{trie.Prove([]byte("key-0")), trie.Prove([]byte("key-5"))}

	other := populatedTrie(10)
	other.Update([]byte("key-9"), []byte("divergent"))

	_, err := smt.NewPartial(other.RootHash(), proofs)
	assert.True(t, smt.IsInvalidProofError(err))
}

// TestPartialUpdateMatchesFullTrie replays a batch of writes on a partial
// trie and on the full trie and requires both to arrive at the same root.
func TestPartialUpdateMatchesFullTrie(t *testing.T) {
	trie := populatedTrie(30)
	root := trie.RootHash()

	touched := [][]byte{[]byte("key-2"), []byte("key-11"), []byte("key-29"), []byte("fresh-key")}
	proofs := trie.ProveBatch(touched)
	partial, err := smt.NewPartial(root, proofs)
	require.NoError(t, err)

	newValues := [][]byte{[]byte("rewritten-2"), []byte("rewritten-11"), nil, []byte("fresh-value")}
	partialRoot, err := partial.Update(touched, newValues)
	require.NoError(t, err)

	for i, key := range touched {
		trie.Update(key, newValues[i])
	}
	assert.Equal(t, trie.RootHash(), partialRoot)
}

// TestPartialMissingPath checks that reads and writes outside the proven
// subset fail with ErrMissingPath instead of fabricating state.
func TestPartialMissingPath(t *testing.T) {
	trie := populatedTrie(10)
	partial, err := smt.NewPartial(trie.RootHash(), []*smt.StorageProof{trie.Prove([]byte("key-0"))})
	require.NoError(t, err)

	_, err = partial.Get([][]byte{[]byte("key-1")})
	var missing *smt.ErrMissingPath
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.Paths, 1)

	_, err = partial.Update([][]byte{[]byte("key-1")}, [][]byte{[]byte("x")})
	require.ErrorAs(t, err, &missing)
}

// TestPartialLargeBatch exercises a wider batch of proofs to cover sibling
// sharing between proof paths.
func TestPartialLargeBatch(t *testing.T) {
	trie := populatedTrie(100)
	root := trie.RootHash()

	var keys [][]byte
	for i := 0; i < 100; i += 3 {
		keys = append(keys, []byte(fmt.Sprintf("key-%d", i)))
	}
	proofs := trie.ProveBatch(keys)

	partial, err := smt.NewPartial(root, proofs)
	require.NoError(t, err)

	values, err := partial.Get(keys)
	require.NoError(t, err)
	for i, key := range keys {
		assert.Equal(t, []byte(fmt.Sprintf("value-%s", key[4:])), values[i])
	}
}
