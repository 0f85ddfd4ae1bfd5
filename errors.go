package queuetoken

import (
	"errors"
	"fmt"
)

// Predefined errors. Every error returned by Generate, Parse and the payload
// helpers matches exactly one of the first four with errors.Is.
var (
	// ErrInvalidArgument is matched by *ArgumentError
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidHash is returned, wrapped in a *DeserializationError, when the
	// integrity hash of a token does not match its content
	ErrInvalidHash = errors.New("the token hash is invalid")

	// ErrDeserialization is matched by *DeserializationError
	ErrDeserialization = errors.New("unable to deserialize token")

	// ErrSerialization is matched by *SerializationError
	ErrSerialization = errors.New("unable to serialize token")

	// Header errors
	ErrUnsupportedVersion    = errors.New("unsupported token version")
	ErrUnsupportedEncryption = errors.New("unsupported encryption type")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ArgumentError reports a missing or malformed input detected before any
// cryptographic work is done.
type ArgumentError struct {
	Field   string // The argument that was rejected
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid argument '%s': %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid argument '%s': %s", e.Field, e.Message)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// DeserializationError wraps any failure raised while reading a token whose
// structure was accepted. An integrity failure is a DeserializationError
// wrapping ErrInvalidHash.
type DeserializationError struct {
	Message string
	Err     error
}

func (e *DeserializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

func (e *DeserializationError) Is(target error) bool {
	return target == ErrDeserialization
}

// SerializationError wraps any failure raised while building, encrypting or
// signing a token.
type SerializationError struct {
	Message string
	Err     error
}

func (e *SerializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// IsIntegrityError reports whether err was caused by a hash mismatch.
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrInvalidHash)
}

func newIntegrityError() error {
	return &DeserializationError{Message: "token integrity check failed", Err: ErrInvalidHash}
}

func newArgumentError(field, message string) error {
	return &ArgumentError{Field: field, Message: message}
}
