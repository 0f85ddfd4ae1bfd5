// Package signing computes and checks the integrity tag carried in the third
// token segment.
//
// The tag is base64url(sha256(utf8(header + "." + payload + secretKey))). It
// is a plain digest over the concatenation and not an HMAC, so it is open to
// length extension in principle. The construction is kept as is because every
// issued token and every verifier on the other side depends on it.
package signing

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/cybergodev/queuetoken/internal/core"
	"github.com/cybergodev/queuetoken/internal/security"
)

var (
	ErrSignatureMismatch = errors.New("integrity hash does not match")
	ErrUnsupportedMethod = errors.New("unsupported integrity method")
)

// Method computes and verifies an integrity tag for a signing string.
type Method interface {
	Name() string
	Sign(signingString, secretKey string) string
	Verify(signingString, signature, secretKey string) error
}

type sha256ConcatMethod struct{}

// SHA256Concat is the integrity method used by QT1 tokens.
var SHA256Concat Method = sha256ConcatMethod{}

func (sha256ConcatMethod) Name() string { return "SHA256-CONCAT" }

func (sha256ConcatMethod) Sign(signingString, secretKey string) string {
	sum := Hash(signingString, secretKey)
	defer security.ZeroBytes(sum)
	return core.EncodeBase64URL(sum)
}

// Verify recomputes the tag and compares the encoded forms in constant time.
func (m sha256ConcatMethod) Verify(signingString, signature, secretKey string) error {
	expected := m.Sign(signingString, secretKey)
	if !security.SecureCompareString(expected, signature) {
		return ErrSignatureMismatch
	}
	return nil
}

// Hash returns the raw sha256 digest of signingString followed by secretKey.
func Hash(signingString, secretKey string) []byte {
	buf := make([]byte, 0, len(signingString)+len(secretKey))
	buf = append(buf, signingString...)
	buf = append(buf, secretKey...)
	defer security.ZeroBytes(buf)

	sum := sha256.Sum256(buf)
	return sum[:]
}

// Sign is shorthand for SHA256Concat.Sign.
func Sign(signingString, secretKey string) string {
	return SHA256Concat.Sign(signingString, secretKey)
}

// Verify is shorthand for SHA256Concat.Verify.
func Verify(signingString, signature, secretKey string) error {
	return SHA256Concat.Verify(signingString, signature, secretKey)
}

// MethodForVersion returns the integrity method for a token version.
func MethodForVersion(version string) (Method, error) {
	switch version {
	case "QT1":
		return SHA256Concat, nil
	default:
		return nil, fmt.Errorf("%w for token version %q", ErrUnsupportedMethod, version)
	}
}
