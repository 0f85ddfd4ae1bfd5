package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Header is the wire form of the token header segment. Field order is the
// emitted key order and must not change.
type Header struct {
	TokenVersion    string       `json:"typ"`
	Encryption      string       `json:"enc"`
	Issued          EpochMillis  `json:"iss"`
	Expires         *EpochMillis `json:"exp,omitempty"`
	TokenIdentifier string       `json:"ti"`
	CustomerID      string       `json:"c"`
	EventID         string       `json:"e,omitempty"`
	IPAddress       string       `json:"ip,omitempty"`
	XForwardedFor   string       `json:"xff,omitempty"`
}

// headerWire mirrors Header with pointers so that missing keys can be told
// apart from zero values on decode.
type headerWire struct {
	TokenVersion    *string      `json:"typ"`
	Encryption      *string      `json:"enc"`
	Issued          *EpochMillis `json:"iss"`
	Expires         *EpochMillis `json:"exp"`
	TokenIdentifier *string      `json:"ti"`
	CustomerID      *string      `json:"c"`
	EventID         *string      `json:"e"`
	IPAddress       *string      `json:"ip"`
	XForwardedFor   *string      `json:"xff"`
}

// PayloadClaims is the wire form of the decrypted payload segment.
type PayloadClaims struct {
	RelativeQuality *float64          `json:"r,omitempty"`
	Key             string            `json:"k,omitempty"`
	CustomData      map[string]string `json:"cd,omitempty"`
	Origin          int               `json:"o,omitempty"`
}

var errMissingHeaderField = errors.New("missing required header field")

// EncodeHeader serialises the header to compact JSON and returns its
// base64url segment.
func EncodeHeader(h Header) (string, error) {
	data, err := marshalCompact(h)
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}
	return EncodeBase64URL(data), nil
}

// DecodeHeader is the inverse of EncodeHeader.
func DecodeHeader(segment string) (Header, error) {
	if len(segment) == 0 {
		return Header{}, fmt.Errorf("empty header segment")
	}

	data, err := DecodeBase64URL(segment)
	if err != nil {
		return Header{}, fmt.Errorf("failed to decode header: %w", err)
	}

	text, err := UTF8ToString(data)
	if err != nil {
		return Header{}, fmt.Errorf("failed to decode header: %w", err)
	}

	var wire headerWire
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return Header{}, fmt.Errorf("failed to unmarshal header: %w", err)
	}

	switch {
	case wire.TokenVersion == nil:
		return Header{}, fmt.Errorf("%w: typ", errMissingHeaderField)
	case wire.Encryption == nil:
		return Header{}, fmt.Errorf("%w: enc", errMissingHeaderField)
	case wire.Issued == nil:
		return Header{}, fmt.Errorf("%w: iss", errMissingHeaderField)
	case wire.TokenIdentifier == nil:
		return Header{}, fmt.Errorf("%w: ti", errMissingHeaderField)
	case wire.CustomerID == nil:
		return Header{}, fmt.Errorf("%w: c", errMissingHeaderField)
	}

	return Header{
		TokenVersion:    *wire.TokenVersion,
		Encryption:      *wire.Encryption,
		Issued:          *wire.Issued,
		Expires:         wire.Expires,
		TokenIdentifier: *wire.TokenIdentifier,
		CustomerID:      *wire.CustomerID,
		EventID:         deref(wire.EventID),
		IPAddress:       deref(wire.IPAddress),
		XForwardedFor:   deref(wire.XForwardedFor),
	}, nil
}

// MarshalPayload returns the compact JSON bytes of the payload claims. An
// empty claims value yields "{}".
func MarshalPayload(p PayloadClaims) ([]byte, error) {
	data, err := marshalCompact(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return data, nil
}

// UnmarshalPayload parses decrypted payload bytes. A JSON null yields nil
// claims and no error.
func UnmarshalPayload(data []byte) (*PayloadClaims, error) {
	text, err := UTF8ToString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	var claims *PayloadClaims
	if err := json.Unmarshal([]byte(text), &claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return claims, nil
}

// marshalCompact encodes v without HTML escaping and without the trailing
// newline added by json.Encoder.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
