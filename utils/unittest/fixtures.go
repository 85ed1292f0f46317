// Package unittest provides fixtures and helpers shared across the test
// suites of the verification core.
package unittest

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/driftlabs/drift-go/merkle"
	"github.com/driftlabs/drift-go/model/domain"
)

// RandomBytes returns n random bytes.
func RandomBytes(n int) []byte {
	data := make([]byte, n)
	_, err := rand.Read(data)
	if err != nil {
		panic(fmt.Sprintf("could not read random bytes: %s", err))
	}
	return data
}

// IdentifierFixture returns a random identifier.
func IdentifierFixture() domain.Identifier {
	var id domain.Identifier
	copy(id[:], RandomBytes(len(id)))
	return id
}

// StateRootFixture returns a random state root.
func StateRootFixture() domain.StateRoot {
	var root domain.StateRoot
	copy(root[:], RandomBytes(len(root)))
	return root
}

// KeyFixture generates an operator signing key pair.
func KeyFixture(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

// OperatorFixture generates a key pair and registers the operator.
func OperatorFixture(t *testing.T, registry *domain.Registry) (domain.OperatorID, ed25519.PrivateKey) {
	pub, priv := KeyFixture(t)
	return registry.RegisterOperator(pub), priv
}

// ExtrinsicsFixture returns n distinct opaque extrinsics.
func ExtrinsicsFixture(n int) [][]byte {
	extrinsics := make([][]byte, n)
	for i := range extrinsics {
		extrinsics[i] = []byte(fmt.Sprintf("extrinsic-%d-%x", i, RandomBytes(8)))
	}
	return extrinsics
}

// BundleFixture assembles and signs a bundle over the given extrinsics,
// referencing the given consensus block.
func BundleFixture(
	t *testing.T,
	dom domain.DomainID,
	operator domain.OperatorID,
	key ed25519.PrivateKey,
	extrinsics [][]byte,
	consensusHash domain.Identifier,
	consensusHeight uint64,
) *domain.Bundle {
	bundle := &domain.Bundle{
		Header: domain.BundleHeader{
			DomainID:             dom,
			OperatorID:           operator,
			ConsensusBlockHash:   consensusHash,
			ConsensusBlockHeight: consensusHeight,
			ExtrinsicsRoot:       [32]byte(merkle.RootOf(extrinsics)),
		},
		Extrinsics: extrinsics,
	}
	require.NoError(t, bundle.Sign(key))
	return bundle
}

// ReceiptFixture assembles and signs an execution receipt over the given
// trace. The trace root and new state root are derived from the trace; an
// empty trace leaves the state at prev.
func ReceiptFixture(
	t *testing.T,
	bundle *domain.Bundle,
	operator domain.OperatorID,
	key ed25519.PrivateKey,
	height uint64,
	prev domain.StateRoot,
	trace []domain.StateRoot,
) *domain.ExecutionReceipt {
	leaves := make([][]byte, len(trace))
	for i := range trace {
		leaves[i] = trace[i][:]
	}
	newRoot := prev
	if len(trace) > 0 {
		newRoot = trace[len(trace)-1]
	}
	receipt := &domain.ExecutionReceipt{
		DomainID:       bundle.Header.DomainID,
		DomainHeight:   height,
		OperatorID:     operator,
		BundleID:       bundle.ID(),
		PrevStateRoot:  prev,
		NewStateRoot:   newRoot,
		TraceRoot:      [32]byte(merkle.RootOf(leaves)),
		MessagesDigest: domain.ZeroID,
		Signature:      nil,
	}
	require.NoError(t, receipt.Sign(key))
	return receipt
}

// FakeChain is an in-memory consensus-chain index for tests.
type FakeChain struct {
	Heights map[domain.Identifier]uint64
	Final   uint64
}

// NewFakeChain indexes the given block hashes at heights 0..len-1 and marks
// the last one final.
func NewFakeChain(hashes ...domain.Identifier) *FakeChain {
	chain := &FakeChain{Heights: make(map[domain.Identifier]uint64)}
	for i, hash := range hashes {
		chain.Heights[hash] = uint64(i)
	}
	if len(hashes) > 0 {
		chain.Final = uint64(len(hashes) - 1)
	}
	return chain
}

func (c *FakeChain) BlockHeight(hash domain.Identifier) (uint64, bool) {
	height, ok := c.Heights[hash]
	return height, ok
}

func (c *FakeChain) FinalHeight() uint64 {
	return c.Final
}
