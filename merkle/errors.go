package merkle

import (
	"errors"
	"fmt"
)

// MalformedProofError is returned when a proof is structurally unusable: a
// negative or out-of-range index, or a sibling path deeper than the tree
// could ever be.
type MalformedProofError struct {
	err error
}

// NewMalformedProofErrorf constructs a new MalformedProofError
func NewMalformedProofErrorf(msg string, args ...interface{}) *MalformedProofError {
	return &MalformedProofError{err: fmt.Errorf(msg, args...)}
}

func (e MalformedProofError) Error() string {
	return fmt.Sprintf("malformed proof, %s", e.err.Error())
}

// Unwrap unwraps the error
func (e MalformedProofError) Unwrap() error {
	return e.err
}

// IsMalformedProofError returns whether the given error is a MalformedProofError
func IsMalformedProofError(err error) bool {
	var target *MalformedProofError
	return errors.As(err, &target)
}

// InvalidProofError is returned when a well-formed proof does not recompute
// to the expected root.
type InvalidProofError struct {
	err error
}

// NewInvalidProofErrorf constructs a new InvalidProofError
func NewInvalidProofErrorf(msg string, args ...interface{}) *InvalidProofError {
	return &InvalidProofError{err: fmt.Errorf(msg, args...)}
}

func (e InvalidProofError) Error() string {
	return fmt.Sprintf("invalid proof, %s", e.err.Error())
}

// Unwrap unwraps the error
func (e InvalidProofError) Unwrap() error {
	return e.err
}

// IsInvalidProofError returns whether the given error is an InvalidProofError
func IsInvalidProofError(err error) bool {
	var target *InvalidProofError
	return errors.As(err, &target)
}
