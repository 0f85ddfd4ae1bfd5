package queuetoken

import "strconv"

// TokenVersion identifies the wire format of a token.
type TokenVersion string

const (
	// TokenVersionQT1 is the only token version this package reads or writes
	TokenVersionQT1 TokenVersion = "QT1"
)

// EncryptionType identifies the cipher that protects the payload segment.
type EncryptionType string

const (
	// EncryptionAES256 is AES-256-CBC with a SHA-256 derived key and an MD5 derived IV
	EncryptionAES256 EncryptionType = "AES256"
)

// Origin tags where a queue entry came from. It travels in the payload as
// the "o" key and is omitted when it is OriginConnector.
type Origin int

const (
	// OriginConnector is the default origin
	OriginConnector Origin = iota

	// OriginInviteOnly marks entries created through an invite-only waiting room
	OriginInviteOnly
)

func (o Origin) String() string {
	switch o {
	case OriginConnector:
		return "Connector"
	case OriginInviteOnly:
		return "InviteOnly"
	default:
		return "Origin(" + strconv.Itoa(int(o)) + ")"
	}
}
