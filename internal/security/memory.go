package security

import (
	"crypto/subtle"
	"runtime"
)

// ZeroBytes overwrites key material once it is no longer needed
func ZeroBytes(data []byte) {
	if len(data) == 0 {
		return
	}

	clear(data)
	runtime.KeepAlive(data)
}

// SecureCompare performs constant-time comparison of two byte slices
func SecureCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// SecureCompareString is SecureCompare for strings of ASCII token text
func SecureCompareString(a, b string) bool {
	return SecureCompare([]byte(a), []byte(b))
}
