package validation

import (
	"github.com/hashicorp/go-multierror"
	"github.com/hdevalence/ed25519consensus"
	"github.com/rs/zerolog"

	"github.com/driftlabs/drift-go/merkle"
	"github.com/driftlabs/drift-go/model/domain"
	"github.com/driftlabs/drift-go/module"
)

// BundleValidator checks the structural validity of submitted bundles:
// operator signature, extrinsics-root commitment, and the freshness of the
// consensus-block reference. It holds no mutable state and is safe for
// concurrent use.
type BundleValidator struct {
	log      zerolog.Logger
	config   Config
	registry *domain.Registry
	chain    ChainIndex
	metrics  module.VerificationMetrics
}

// NewBundleValidator creates a bundle validator over the given registry and
// consensus-chain view.
func NewBundleValidator(
	log zerolog.Logger,
	config Config,
	registry *domain.Registry,
	chain ChainIndex,
	metrics module.VerificationMetrics,
) *BundleValidator {
	return &BundleValidator{
		log:      log.With().Str("component", "bundle_validator").Logger(),
		config:   config,
		registry: registry,
		chain:    chain,
		metrics:  metrics,
	}
}

// Validate checks all validity rules for a bundle and returns nil only if
// every rule passes. Independent failures are aggregated, so a rejected
// submission reports everything wrong with it at once.
func (v *BundleValidator) Validate(bundle *domain.Bundle) error {
	var result *multierror.Error

	if err := v.checkSignature(bundle); err != nil {
		result = multierror.Append(result, err)
	}

	recomputed := merkle.RootOf(bundle.Extrinsics)
	if recomputed != merkle.Root(bundle.Header.ExtrinsicsRoot) {
		result = multierror.Append(result, domain.NewCommitmentMismatchErrorf(
			"extrinsics root %x doesn't match recomputed root %x",
			bundle.Header.ExtrinsicsRoot, recomputed,
		))
	}

	if err := v.checkReference(bundle); err != nil {
		result = multierror.Append(result, err)
	}

	err := result.ErrorOrNil()
	v.metrics.OnBundleValidated(err == nil)
	if err != nil {
		v.log.Debug().
			Hex("bundle_id", logID(bundle.ID())).
			Err(err).
			Msg("bundle rejected")
	}
	return err
}

func (v *BundleValidator) checkSignature(bundle *domain.Bundle) error {
	key, ok := v.registry.PublicKey(bundle.Header.OperatorID)
	if !ok {
		return domain.NewUnauthorizedErrorf("unknown operator %s", bundle.Header.OperatorID)
	}
	msg, err := bundle.Header.SigningMessage()
	if err != nil {
		return domain.NewMalformedInputErrorf("could not build signing message: %s", err)
	}
	if !ed25519consensus.Verify(key, msg, bundle.Signature) {
		return domain.NewUnauthorizedErrorf("invalid operator signature on bundle header")
	}
	return nil
}

func (v *BundleValidator) checkReference(bundle *domain.Bundle) error {
	height, known := v.chain.BlockHeight(bundle.Header.ConsensusBlockHash)
	if !known {
		return domain.NewStaleReferenceErrorf(
			"unknown consensus block %s", bundle.Header.ConsensusBlockHash,
		)
	}
	if height != bundle.Header.ConsensusBlockHeight {
		return domain.NewMalformedInputErrorf(
			"referenced height %d doesn't match indexed height %d",
			bundle.Header.ConsensusBlockHeight, height,
		)
	}
	final := v.chain.FinalHeight()
	if final > height && final-height > v.config.MaxReferenceAge {
		return domain.NewStaleReferenceErrorf(
			"referenced block at height %d is %d blocks behind final height %d (max %d)",
			height, final-height, final, v.config.MaxReferenceAge,
		)
	}
	return nil
}

func logID(id domain.Identifier) []byte {
	return id[:]
}
