package queuetoken

import (
	"fmt"

	"github.com/cybergodev/queuetoken/internal/core"
)

// validateTokenString checks the outer shape of a token before any
// cryptographic work: non-empty, within maxLength when set, exactly three
// segments with non-empty header and hash.
func validateTokenString(token string, maxLength int) (core.Segments, error) {
	if token == "" {
		return core.Segments{}, newArgumentError("token", "invalid token: empty")
	}

	if maxLength > 0 && len(token) > maxLength {
		return core.Segments{}, newArgumentError("token", fmt.Sprintf("invalid token: longer than %d characters", maxLength))
	}

	segments, err := core.Split3(token)
	if err != nil {
		return core.Segments{}, &ArgumentError{Field: "token", Message: "invalid token", Err: err}
	}

	if segments.Header == "" {
		return core.Segments{}, newArgumentError("token", "invalid token: empty header segment")
	}
	if segments.Hash == "" {
		return core.Segments{}, newArgumentError("token", "invalid token: empty hash segment")
	}

	return segments, nil
}

func validateSecretKey(secretKey string) error {
	if secretKey == "" {
		return newArgumentError("secretKey", "invalid secret key: empty")
	}
	return nil
}
