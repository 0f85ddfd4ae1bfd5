package core

import (
	"errors"
	"strings"
)

var errInvalidTokenFormat = errors.New("invalid token format: expected header.payload.hash")

// Segments holds the three dot-separated parts of a token string
type Segments struct {
	Header  string
	Payload string
	Hash    string
}

// SigningString returns the part of the token covered by the integrity hash.
func (s Segments) SigningString() string {
	return s.Header + "." + s.Payload
}

// Split3 splits a token into exactly three segments. The payload segment may
// be empty; any other count of separators is rejected.
func Split3(token string) (Segments, error) {
	first := strings.IndexByte(token, '.')
	if first == -1 {
		return Segments{}, errInvalidTokenFormat
	}

	rest := token[first+1:]
	second := strings.IndexByte(rest, '.')
	if second == -1 {
		return Segments{}, errInvalidTokenFormat
	}

	hash := rest[second+1:]
	if strings.IndexByte(hash, '.') != -1 {
		return Segments{}, errInvalidTokenFormat
	}

	return Segments{
		Header:  token[:first],
		Payload: rest[:second],
		Hash:    hash,
	}, nil
}

// Join frames the segments back into a token string.
func (s Segments) Join() string {
	return s.SigningString() + "." + s.Hash
}
