package core

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrDecode is returned for any malformed base64url input
	ErrDecode = errors.New("invalid base64url data")

	// ErrInvalidUTF8 is returned when decoded bytes are not valid UTF-8 text
	ErrInvalidUTF8 = errors.New("invalid utf-8 sequence")
)

var (
	toURLAlphabet   = strings.NewReplacer("+", "-", "/", "_")
	fromURLAlphabet = strings.NewReplacer("-", "+", "_", "/")
)

// EncodeBase64URL encodes data with the standard alphabet, swaps '+' and '/'
// for '-' and '_' and strips all padding.
func EncodeBase64URL(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	encoded := toURLAlphabet.Replace(base64.StdEncoding.EncodeToString(data))
	return strings.TrimRight(encoded, "=")
}

// DecodeBase64URL reverses EncodeBase64URL. The missing padding is restored
// as len%4 characters, except remainder 3 which takes exactly one.
func DecodeBase64URL(s string) ([]byte, error) {
	if len(s) == 0 {
		return []byte{}, nil
	}

	s = fromURLAlphabet.Replace(s)
	s += strings.Repeat("=", paddingFor(len(s)))

	data, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}

func paddingFor(n int) int {
	padding := n % 4
	if padding == 3 {
		padding = 1
	}
	return padding
}

// StringToUTF8 returns the UTF-8 bytes of s.
func StringToUTF8(s string) []byte {
	return []byte(s)
}

// UTF8ToString converts UTF-8 bytes back to text, rejecting invalid sequences.
func UTF8ToString(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}
