package queuetoken

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cybergodev/queuetoken/internal/core"
	"github.com/cybergodev/queuetoken/internal/signing"
)

// Codec builds and parses tokens with a fixed set of non-secret settings. It
// holds no mutable state and is safe for concurrent use. Secret keys are
// passed per call and never retained.
type Codec struct {
	identifierPrefix string
	defaultValidity  time.Duration
	maxTokenLength   int
	logger           *slog.Logger
	clock            func() time.Time
	newIdentifier    func() string
}

// New creates a Codec from an optional configuration
func New(config ...Config) (*Codec, error) {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NewIdentifier == nil {
		cfg.NewIdentifier = uuid.NewString
	}

	return &Codec{
		identifierPrefix: cfg.IdentifierPrefix,
		defaultValidity:  cfg.DefaultValidity,
		maxTokenLength:   cfg.MaxTokenLength,
		logger:           cfg.Logger,
		clock:            cfg.Clock,
		newIdentifier:    cfg.NewIdentifier,
	}, nil
}

// Enqueue starts a token for customerID issued now. An identifier prefix
// passed here takes precedence over Config.IdentifierPrefix.
func (c *Codec) Enqueue(customerID string, identifierPrefix ...string) TokenBuilder {
	prefix := c.identifierPrefix
	if len(identifierPrefix) > 0 {
		prefix = identifierPrefix[0]
	}

	issued := truncateMillis(c.clock())
	expires := MaxDate
	if c.defaultValidity > 0 {
		expires = truncateMillis(issued.Add(c.defaultValidity))
	}

	return TokenBuilder{token: Token{
		codec:            c,
		identifierPrefix: prefix,
		tokenIdentifier:  c.tokenIdentifier(prefix),
		customerID:       customerID,
		issued:           issued,
		expires:          expires,
	}}
}

// Parse verifies and decodes a token string.
//
// The integrity hash is checked before the header or payload is decoded, so
// a token that fails the check never reaches the JSON or cipher layers.
// Errors are *ArgumentError for malformed input, a *DeserializationError
// wrapping ErrInvalidHash for a hash mismatch, and *DeserializationError for
// anything that fails after the hash matched.
func (c *Codec) Parse(token, secretKey string) (*Token, error) {
	if err := validateSecretKey(secretKey); err != nil {
		return nil, err
	}

	segments, err := validateTokenString(token, c.maxTokenLength)
	if err != nil {
		return nil, err
	}

	signingString := segments.SigningString()
	if err := signing.Verify(signingString, segments.Hash, secretKey); err != nil {
		c.logger.Warn("token integrity check failed", "token_length", len(token))
		return nil, newIntegrityError()
	}

	header, err := core.DecodeHeader(segments.Header)
	if err != nil {
		return nil, &DeserializationError{Message: "unable to deserialize token", Err: err}
	}

	if _, err := signing.MethodForVersion(header.TokenVersion); err != nil {
		return nil, &DeserializationError{
			Message: "unable to deserialize token",
			Err:     fmt.Errorf("%w: %q", ErrUnsupportedVersion, header.TokenVersion),
		}
	}
	if EncryptionType(header.Encryption) != EncryptionAES256 {
		return nil, &DeserializationError{
			Message: "unable to deserialize token",
			Err:     fmt.Errorf("%w: %q", ErrUnsupportedEncryption, header.Encryption),
		}
	}

	var payload *Payload
	if segments.Payload != "" {
		payload, err = DeserializePayload(segments.Payload, secretKey, header.TokenIdentifier)
		if err != nil {
			return nil, err
		}
	}

	parsed := &Token{
		codec:            c,
		identifierPrefix: identifierPrefixOf(header.TokenIdentifier),
		tokenIdentifier:  header.TokenIdentifier,
		customerID:       header.CustomerID,
		eventID:          header.EventID,
		issued:           fromEpochMillis(header.Issued),
		expires:          expiresFromWire(header.Expires),
		ipAddress:        header.IPAddress,
		xForwardedFor:    header.XForwardedFor,
		payload:          payload,
		tokenWithoutHash: signingString,
		hashCode:         segments.Hash,
	}

	c.logger.Debug("token parsed",
		"customer_id", parsed.customerID,
		"token_identifier", parsed.tokenIdentifier,
		"has_payload", payload != nil,
	)

	return parsed, nil
}

// tokenIdentifier returns a fresh identifier, "prefix~uuid" when a prefix is set.
func (c *Codec) tokenIdentifier(prefix string) string {
	id := c.newIdentifier()
	if prefix == "" {
		return id
	}
	return prefix + "~" + id
}

func identifierPrefixOf(tokenIdentifier string) string {
	if i := strings.LastIndex(tokenIdentifier, "~"); i > 0 {
		return tokenIdentifier[:i]
	}
	return ""
}
