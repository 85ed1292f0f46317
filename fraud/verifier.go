package fraud

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/driftlabs/drift-go/ledger/smt"
	"github.com/driftlabs/drift-go/merkle"
	"github.com/driftlabs/drift-go/model/disputes"
	"github.com/driftlabs/drift-go/model/domain"
	"github.com/driftlabs/drift-go/module"
)

// Verifier checks fraud proofs by recomputing the single disputed step. It is
// the consensus-side arbiter of a dispute: it holds no domain state, trusts
// nothing in the proof, and decides from the proof, the accused receipt and
// its bundle alone.
type Verifier struct {
	log      zerolog.Logger
	executor StepExecutor
	metrics  module.VerificationMetrics
}

// NewVerifier creates a fraud-proof verifier using the given step executor.
func NewVerifier(
	log zerolog.Logger,
	executor StepExecutor,
	metrics module.VerificationMetrics,
) *Verifier {
	return &Verifier{
		log:      log.With().Str("component", "fraud_verifier").Logger(),
		executor: executor,
		metrics:  metrics,
	}
}

// Verify decides a fraud proof against the accused receipt and its bundle.
// An accepted verdict proves the receipt fraudulent; a rejected verdict
// carries the fault that discredits the proof and leaves the receipt
// standing. Malformed input of any shape yields a rejection, never a panic.
func (v *Verifier) Verify(
	proof *FraudProof,
	accused *domain.ExecutionReceipt,
	bundle *domain.Bundle,
) disputes.Verdict {

	verdict := v.verify(proof, accused, bundle)

	accepted := verdict.Status == disputes.StatusAccepted
	v.metrics.OnFraudProofVerified(accepted)
	event := v.log.Info()
	if !accepted {
		event = v.log.Debug()
	}
	event.
		Uint32("domain", uint32(proof.DomainID)).
		Uint64("height", proof.DomainHeight).
		Uint32("step", proof.StepIndex).
		Str("verdict", verdict.String()).
		Msg("fraud proof decided")

	return verdict
}

func (v *Verifier) verify(
	proof *FraudProof,
	accused *domain.ExecutionReceipt,
	bundle *domain.Bundle,
) disputes.Verdict {

	receiptID := accused.ID()
	malformed := func(format string, args ...interface{}) disputes.Verdict {
		return disputes.Rejected(disputes.FaultMalformedProof{
			Receipt: receiptID,
			Err:     fmt.Errorf(format, args...),
		})
	}

	// the proof must target exactly this receipt and its bundle
	if proof.TargetReceiptID != receiptID {
		return malformed("proof targets receipt %s, not %s", proof.TargetReceiptID, receiptID)
	}
	if proof.DomainID != accused.DomainID || proof.DomainHeight != accused.DomainHeight {
		return malformed("proof disputes domain %d height %d, receipt claims domain %d height %d",
			proof.DomainID, proof.DomainHeight, accused.DomainID, accused.DomainHeight)
	}
	if bundle.ID() != accused.BundleID {
		return malformed("given bundle %s is not the accused bundle %s", bundle.ID(), accused.BundleID)
	}
	if int(proof.StepIndex) >= len(bundle.Extrinsics) {
		return malformed("step index %d outside bundle of %d extrinsics",
			proof.StepIndex, len(bundle.Extrinsics))
	}
	index := int(proof.StepIndex)

	// the disputed extrinsic must be the bundle's extrinsic at the index
	if proof.ExtrinsicProof == nil {
		return malformed("missing extrinsic inclusion proof")
	}
	err := proof.ExtrinsicProof.Verify(merkle.Root(bundle.Header.ExtrinsicsRoot), proof.StepExtrinsic, index)
	if err != nil {
		return malformed("extrinsic not bound to bundle at step %d: %s", index, err)
	}

	// the claimed post-state root must be what the accused committed to
	if proof.PostStateProof == nil {
		return malformed("missing post-state binding proof")
	}
	err = proof.PostStateProof.Verify(merkle.Root(accused.TraceRoot), proof.ClaimedPostRoot[:], index)
	if err != nil {
		return malformed("claimed post-state root not bound to accused trace: %s", err)
	}

	// the pre-state root must be agreed: bound to the accused trace one step
	// earlier, or the receipt's own PrevStateRoot at step 0
	if index == 0 {
		if proof.PreStateRoot != accused.PrevStateRoot {
			return disputes.Rejected(disputes.FaultMismatchedPreState{
				Receipt: receiptID,
				Err: fmt.Errorf("proof executes from %s, receipt from %s",
					proof.PreStateRoot, accused.PrevStateRoot),
			})
		}
	} else {
		if proof.PreStateProof == nil {
			return malformed("missing pre-state binding proof")
		}
		err = proof.PreStateProof.Verify(merkle.Root(accused.TraceRoot), proof.PreStateRoot[:], index-1)
		if err != nil {
			return disputes.Rejected(disputes.FaultMismatchedPreState{
				Receipt: receiptID,
				Err:     fmt.Errorf("pre-state root not bound to accused trace: %w", err),
			})
		}
	}

	// rebuild the pre-step state from the witness proofs
	partial, err := smt.NewPartial(smt.Root(proof.PreStateRoot), proof.Witness)
	if err != nil {
		if smt.IsInvalidProofError(err) {
			return disputes.Rejected(disputes.FaultMismatchedPreState{Receipt: receiptID, Err: err})
		}
		return disputes.Rejected(disputes.FaultMalformedProof{Receipt: receiptID, Err: err})
	}

	// recompute the disputed step against the proven fragments
	result, err := v.executor.ExecuteStep(&partialView{partial: partial}, proof.StepExtrinsic)
	if err != nil {
		var missing *smt.ErrMissingPath
		if errors.As(err, &missing) {
			return disputes.Rejected(disputes.FaultMissingWitness{Receipt: receiptID, Err: err})
		}
		return disputes.Rejected(disputes.FaultExecutionFailed{Receipt: receiptID, Err: err})
	}

	keys := make([][]byte, len(result.Writes))
	values := make([][]byte, len(result.Writes))
	for i, write := range result.Writes {
		keys[i] = write.Key
		values[i] = write.Value
	}
	newRoot, err := partial.Update(keys, values)
	if err != nil {
		var missing *smt.ErrMissingPath
		if errors.As(err, &missing) {
			return disputes.Rejected(disputes.FaultMissingWitness{Receipt: receiptID, Err: err})
		}
		return disputes.Rejected(disputes.FaultMalformedProof{Receipt: receiptID, Err: err})
	}

	if domain.StateRoot(newRoot) == proof.ClaimedPostRoot {
		// the accused claim checks out, the proof itself is the bad actor
		return disputes.Rejected(disputes.FaultInvalidClaim{Receipt: receiptID})
	}
	return disputes.Accepted()
}

// VerifyInconsistency decides an inconsistency proof against the accused
// receipt and its bundle: accepted when the receipt's NewStateRoot is not
// the final leaf of its own trace commitment. No re-execution is needed,
// the receipt convicts itself.
func (v *Verifier) VerifyInconsistency(
	proof *InconsistencyProof,
	accused *domain.ExecutionReceipt,
	bundle *domain.Bundle,
) disputes.Verdict {

	verdict := v.verifyInconsistency(proof, accused, bundle)

	accepted := verdict.Status == disputes.StatusAccepted
	v.metrics.OnFraudProofVerified(accepted)
	event := v.log.Info()
	if !accepted {
		event = v.log.Debug()
	}
	event.
		Uint32("domain", uint32(proof.DomainID)).
		Uint64("height", proof.DomainHeight).
		Str("verdict", verdict.String()).
		Msg("inconsistency proof decided")

	return verdict
}

func (v *Verifier) verifyInconsistency(
	proof *InconsistencyProof,
	accused *domain.ExecutionReceipt,
	bundle *domain.Bundle,
) disputes.Verdict {

	receiptID := accused.ID()
	malformed := func(format string, args ...interface{}) disputes.Verdict {
		return disputes.Rejected(disputes.FaultMalformedProof{
			Receipt: receiptID,
			Err:     fmt.Errorf(format, args...),
		})
	}

	if proof.TargetReceiptID != receiptID {
		return malformed("proof targets receipt %s, not %s", proof.TargetReceiptID, receiptID)
	}
	if proof.DomainID != accused.DomainID || proof.DomainHeight != accused.DomainHeight {
		return malformed("proof disputes domain %d height %d, receipt claims domain %d height %d",
			proof.DomainID, proof.DomainHeight, accused.DomainID, accused.DomainHeight)
	}
	if bundle.ID() != accused.BundleID {
		return malformed("given bundle %s is not the accused bundle %s", bundle.ID(), accused.BundleID)
	}

	steps := len(bundle.Extrinsics)
	if steps == 0 {
		// nothing executed: the receipt must carry its pre-state forward and
		// commit to an empty trace
		if accused.NewStateRoot != accused.PrevStateRoot || accused.TraceRoot != [32]byte(merkle.EmptyRoot) {
			return disputes.Accepted()
		}
		return disputes.Rejected(disputes.FaultInvalidClaim{Receipt: receiptID})
	}

	if proof.FinalStateProof == nil {
		return malformed("missing final trace binding proof")
	}
	err := proof.FinalStateProof.Verify(merkle.Root(accused.TraceRoot), proof.FinalStateRoot[:], steps-1)
	if err != nil {
		return malformed("claimed final trace root not bound to accused trace: %s", err)
	}

	if proof.FinalStateRoot != accused.NewStateRoot {
		return disputes.Accepted()
	}
	return disputes.Rejected(disputes.FaultInvalidClaim{Receipt: receiptID})
}
