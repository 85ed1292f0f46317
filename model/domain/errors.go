package domain

import (
	"errors"
	"fmt"
)

// MalformedInputError is returned when an externally supplied entity or proof
// is structurally broken: wrong lengths, out-of-range indices, undecodable
// bytes. It is always recoverable; callers reject the input and move on.
type MalformedInputError struct {
	err error
}

// NewMalformedInputErrorf constructs a new MalformedInputError
func NewMalformedInputErrorf(msg string, args ...interface{}) *MalformedInputError {
	return &MalformedInputError{err: fmt.Errorf(msg, args...)}
}

func (e MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input, %s", e.err.Error())
}

// Unwrap unwraps the error
func (e MalformedInputError) Unwrap() error {
	return e.err
}

// IsMalformedInputError returns whether the given error is a MalformedInputError
func IsMalformedInputError(err error) bool {
	var target *MalformedInputError
	return errors.As(err, &target)
}

// CommitmentMismatchError is returned when a recomputed commitment disagrees
// with the claimed one. It signals corruption or an adversarial submission;
// the input is rejected, the process carries on.
type CommitmentMismatchError struct {
	err error
}

// NewCommitmentMismatchErrorf constructs a new CommitmentMismatchError
func NewCommitmentMismatchErrorf(msg string, args ...interface{}) *CommitmentMismatchError {
	return &CommitmentMismatchError{err: fmt.Errorf(msg, args...)}
}

func (e CommitmentMismatchError) Error() string {
	return fmt.Sprintf("commitment mismatch, %s", e.err.Error())
}

// Unwrap unwraps the error
func (e CommitmentMismatchError) Unwrap() error {
	return e.err
}

// IsCommitmentMismatchError returns whether the given error is a CommitmentMismatchError
func IsCommitmentMismatchError(err error) bool {
	var target *CommitmentMismatchError
	return errors.As(err, &target)
}

// UnauthorizedError is returned when a signature or operator-identity check
// fails. The input is rejected; penalty policy is up to the caller.
type UnauthorizedError struct {
	err error
}

// NewUnauthorizedErrorf constructs a new UnauthorizedError
func NewUnauthorizedErrorf(msg string, args ...interface{}) *UnauthorizedError {
	return &UnauthorizedError{err: fmt.Errorf(msg, args...)}
}

func (e UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized, %s", e.err.Error())
}

// Unwrap unwraps the error
func (e UnauthorizedError) Unwrap() error {
	return e.err
}

// IsUnauthorizedError returns whether the given error is an UnauthorizedError
func IsUnauthorizedError(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

// StaleReferenceError is returned when a bundle references a consensus block
// that is unknown or older than the configured staleness bound. The caller
// may retry once its view of the consensus chain catches up.
type StaleReferenceError struct {
	err error
}

// NewStaleReferenceErrorf constructs a new StaleReferenceError
func NewStaleReferenceErrorf(msg string, args ...interface{}) *StaleReferenceError {
	return &StaleReferenceError{err: fmt.Errorf(msg, args...)}
}

func (e StaleReferenceError) Error() string {
	return fmt.Sprintf("stale or unknown reference, %s", e.err.Error())
}

// Unwrap unwraps the error
func (e StaleReferenceError) Unwrap() error {
	return e.err
}

// IsStaleReferenceError returns whether the given error is a StaleReferenceError
func IsStaleReferenceError(err error) bool {
	var target *StaleReferenceError
	return errors.As(err, &target)
}
