package domain

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Identifier is the 32-byte content address of an entity. It is computed as
// the SHA3-256 digest of the entity's canonical encoding, so two entities
// have the same Identifier exactly when their canonical encodings are equal.
type Identifier [32]byte

// ZeroID is the lowest value in the 32-byte ID space.
var ZeroID = Identifier{}

// DomainID identifies an execution domain registered on the consensus chain.
type DomainID uint32

// OperatorID identifies a registered domain operator.
type OperatorID = Identifier

// StateRoot is the commitment to a domain's key/value state at a point in
// its history.
type StateRoot [32]byte

// EmptyStateRoot is used before a domain has committed any state.
var EmptyStateRoot = StateRoot{}

func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

func (s StateRoot) String() string {
	return hex.EncodeToString(s[:])
}

// HashToIdentifier hashes arbitrary bytes into the ID space.
func HashToIdentifier(data []byte) Identifier {
	return Identifier(sha3.Sum256(data))
}
