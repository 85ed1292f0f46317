package fraud

import (
	"fmt"

	"github.com/driftlabs/drift-go/ledger/smt"
)

// Chain selects which chain's state a storage proof is drawn from.
type Chain uint8

const (
	// ConsensusChain is the coordinating chain all domains anchor to.
	ConsensusChain Chain = iota
	// DomainChain is the domain's own execution chain.
	DomainChain
)

func (c Chain) String() string {
	switch c {
	case ConsensusChain:
		return "consensus"
	case DomainChain:
		return "domain"
	default:
		return fmt.Sprintf("unknown chain (%d)", c)
	}
}

// ProofOracle is the host-function bridge for fetching storage proofs from
// state a challenger does not hold locally, such as consensus-chain state a
// step read across the chain boundary. Implementations sit outside this
// package; answers are untrusted and verified before use.
type ProofOracle interface {
	FetchStorageProof(chain Chain, root smt.Root, key []byte) (*smt.StorageProof, error)
}

// GatherWitness fetches storage proofs for the given keys under a remote
// state root and verifies each against that root before returning them. A
// proof the oracle returns for the wrong key or root fails the gather.
func GatherWitness(oracle ProofOracle, chain Chain, root smt.Root, keys [][]byte) ([]*smt.StorageProof, error) {
	proofs := make([]*smt.StorageProof, 0, len(keys))
	for _, key := range keys {
		proof, err := oracle.FetchStorageProof(chain, root, key)
		if err != nil {
			return nil, fmt.Errorf("could not fetch proof for key %x from %s chain: %w", key, chain, err)
		}
		if smt.PathOf(proof.Key) != smt.PathOf(key) {
			return nil, fmt.Errorf("oracle returned proof for key %x, requested %x", proof.Key, key)
		}
		err = proof.Verify(root)
		if err != nil {
			return nil, fmt.Errorf("oracle proof for key %x does not verify: %w", key, err)
		}
		proofs = append(proofs, proof)
	}
	return proofs, nil
}
