package smt

import (
	"errors"
	"fmt"
)

// MalformedProofError is returned when a storage proof is structurally
// broken: inconsistent lengths, too many steps, interims that don't match
// the flag count. Proofs are untrusted input; this is always recoverable.
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

// InvalidProofError is returned when a proof is well-formed but does not
// reconstruct the claimed root. A proof that is internally consistent but
// rooted elsewhere fails with this error: the final root comparison is never
// skipped.
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

// ErrMissingPath is returned when a partial trie is asked about keys that
// none of its proofs cover.
type ErrMissingPath struct {
	Paths []Path
}

func (e ErrMissingPath) Error() string {
	str := "paths are missing: \n"
	for _, p := range e.Paths {
		str += fmt.Sprintf("\t %x\n", p)
	}
	return str
}
