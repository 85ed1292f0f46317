// Package validation implements the validity predicates the consensus layer
// applies to incoming bundles and execution receipts, and the conflict check
// that opens a dispute between receipts.
package validation

import (
	"github.com/driftlabs/drift-go/model/domain"
)

// ChainIndex is the caller-supplied view of the consensus chain used to
// judge a bundle's consensus-block reference. The core never stores chain
// state itself.
type ChainIndex interface {
	// BlockHeight resolves a consensus block hash to its height; the second
	// return is false for unknown blocks.
	BlockHeight(blockHash domain.Identifier) (uint64, bool)
	// FinalHeight returns the height of the latest consensus block.
	FinalHeight() uint64
}

// Config carries the policy knobs for bundle validation.
type Config struct {
	// MaxReferenceAge is the maximum number of consensus blocks a bundle's
	// referenced block may lag behind the final height.
	MaxReferenceAge uint64
}

// DefaultConfig returns the default validation policy.
func DefaultConfig() Config {
	return Config{MaxReferenceAge: 32}
}
