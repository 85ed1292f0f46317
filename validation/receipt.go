package validation

import (
	"github.com/hashicorp/go-multierror"
	"github.com/hdevalence/ed25519consensus"
	"github.com/rs/zerolog"

	"github.com/driftlabs/drift-go/model/domain"
	"github.com/driftlabs/drift-go/module"
)

// ReceiptValidator checks that an execution receipt extends its domain's
// receipt chain correctly. The caller feeds receipts in strictly increasing
// height order per domain; the checks themselves are pure and hold no state
// about which receipts have been accepted.
type ReceiptValidator struct {
	log      zerolog.Logger
	registry *domain.Registry
	metrics  module.VerificationMetrics
}

// NewReceiptValidator creates a receipt validator over the given registry.
func NewReceiptValidator(
	log zerolog.Logger,
	registry *domain.Registry,
	metrics module.VerificationMetrics,
) *ReceiptValidator {
	return &ReceiptValidator{
		log:      log.With().Str("component", "receipt_validator").Logger(),
		registry: registry,
		metrics:  metrics,
	}
}

// ValidateChainStep checks that `receipt` extends `prior`, the last accepted
// receipt of the same domain. A nil prior anchors the check at the domain's
// genesis root and requires height 0.
func (v *ReceiptValidator) ValidateChainStep(receipt *domain.ExecutionReceipt, prior *domain.ExecutionReceipt) error {
	var result *multierror.Error

	if err := v.checkChaining(receipt, prior); err != nil {
		result = multierror.Append(result, err)
	}
	if err := v.checkAuthorization(receipt); err != nil {
		result = multierror.Append(result, err)
	}
	if err := v.checkSignature(receipt); err != nil {
		result = multierror.Append(result, err)
	}

	err := result.ErrorOrNil()
	v.metrics.OnReceiptValidated(err == nil)
	if err != nil {
		v.log.Debug().
			Uint32("domain", uint32(receipt.DomainID)).
			Uint64("height", receipt.DomainHeight).
			Err(err).
			Msg("receipt rejected")
	}
	return err
}

func (v *ReceiptValidator) checkChaining(receipt *domain.ExecutionReceipt, prior *domain.ExecutionReceipt) error {
	if prior == nil {
		genesis, ok := v.registry.GenesisRoot(receipt.DomainID)
		if !ok {
			return domain.NewMalformedInputErrorf("unknown domain %d", receipt.DomainID)
		}
		if receipt.DomainHeight != 0 {
			return domain.NewMalformedInputErrorf(
				"first receipt must be at height 0, got %d", receipt.DomainHeight,
			)
		}
		if receipt.PrevStateRoot != genesis {
			return domain.NewCommitmentMismatchErrorf(
				"receipt chains from %s, domain genesis is %s", receipt.PrevStateRoot, genesis,
			)
		}
		return nil
	}

	if receipt.DomainID != prior.DomainID {
		return domain.NewMalformedInputErrorf(
			"receipt for domain %d cannot extend chain of domain %d",
			receipt.DomainID, prior.DomainID,
		)
	}
	if receipt.DomainHeight != prior.DomainHeight+1 {
		return domain.NewMalformedInputErrorf(
			"receipt height %d doesn't extend prior height %d",
			receipt.DomainHeight, prior.DomainHeight,
		)
	}
	if receipt.PrevStateRoot != prior.NewStateRoot {
		return domain.NewCommitmentMismatchErrorf(
			"receipt chains from %s, prior receipt committed %s",
			receipt.PrevStateRoot, prior.NewStateRoot,
		)
	}
	return nil
}

func (v *ReceiptValidator) checkAuthorization(receipt *domain.ExecutionReceipt) error {
	if !v.registry.IsAuthorized(receipt.DomainID, receipt.DomainHeight, receipt.OperatorID) {
		return domain.NewUnauthorizedErrorf(
			"operator %s not authorized for domain %d at height %d",
			receipt.OperatorID, receipt.DomainID, receipt.DomainHeight,
		)
	}
	return nil
}

func (v *ReceiptValidator) checkSignature(receipt *domain.ExecutionReceipt) error {
	key, ok := v.registry.PublicKey(receipt.OperatorID)
	if !ok {
		return domain.NewUnauthorizedErrorf("unknown operator %s", receipt.OperatorID)
	}
	msg, err := receipt.SigningMessage()
	if err != nil {
		return domain.NewMalformedInputErrorf("could not build signing message: %s", err)
	}
	if !ed25519consensus.Verify(key, msg, receipt.Signature) {
		return domain.NewUnauthorizedErrorf("invalid operator signature on receipt")
	}
	return nil
}

// DetectConflict reports whether the two receipts conflict and records the
// detection. This is the entry point for receipt cross-checking; callers that
// only need the pure predicate use Conflicting directly.
func (v *ReceiptValidator) DetectConflict(a *domain.ExecutionReceipt, b *domain.ExecutionReceipt) bool {
	if !Conflicting(a, b) {
		return false
	}
	v.metrics.OnConflictDetected()
	v.log.Warn().
		Uint32("domain", uint32(a.DomainID)).
		Uint64("height", a.DomainHeight).
		Str("receipt_a", a.ID().String()).
		Str("receipt_b", b.ID().String()).
		Msg("conflicting receipts detected")
	return true
}

// Conflicting reports whether two receipts disagree about the same state
// transition: same domain and height, same claimed pre-state, different
// operators, different resulting state. A conflicting pair is the trigger
// for fraud-proof construction; it is a pending dispute, not an error.
func Conflicting(a *domain.ExecutionReceipt, b *domain.ExecutionReceipt) bool {
	return a.DomainID == b.DomainID &&
		a.DomainHeight == b.DomainHeight &&
		a.OperatorID != b.OperatorID &&
		a.PrevStateRoot == b.PrevStateRoot &&
		a.NewStateRoot != b.NewStateRoot
}
