package domain

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"
)

// codecVersion is the single supported version of the canonical binary
// encoding. It prefixes every encoded entity; construction and verification
// sides must agree on it byte-for-byte or all commitments diverge.
const codecVersion byte = 0x01

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Core deterministic encoding: map keys sorted, shortest-form integers.
	// Entities are hashed and signed over this encoding, so any
	// non-determinism here would be a consensus failure.
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("could not construct deterministic cbor encoder: %s", err))
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("could not construct cbor decoder: %s", err))
	}
}

// Encode returns the canonical versioned encoding of an entity.
func Encode(v interface{}) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not encode entity: %w", err)
	}
	out := make([]byte, 0, len(data)+1)
	out = append(out, codecVersion)
	out = append(out, data...)
	return out, nil
}

// Decode parses a canonical encoding produced by Encode.
func Decode(data []byte, v interface{}) error {
	if len(data) < 1 {
		return NewMalformedInputErrorf("empty encoding")
	}
	if data[0] != codecVersion {
		return NewMalformedInputErrorf("unsupported codec version %d", data[0])
	}
	err := decMode.Unmarshal(data[1:], v)
	if err != nil {
		return NewMalformedInputErrorf("could not decode entity: %s", err)
	}
	return nil
}

// MakeID returns the Identifier of an entity: the SHA3-256 digest of its
// canonical encoding. Encoding failures indicate a non-encodable type, which
// is a programming error, hence the panic.
func MakeID(v interface{}) Identifier {
	data, err := Encode(v)
	if err != nil {
		panic(fmt.Sprintf("could not encode entity for ID: %s", err))
	}
	return Identifier(sha3.Sum256(data))
}
