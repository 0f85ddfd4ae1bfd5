package queuetoken

import (
	"time"

	"github.com/cybergodev/queuetoken/internal/core"
	"github.com/cybergodev/queuetoken/internal/signing"
)

// Token is an enqueue token. A Token returned by TokenBuilder.Build is
// unsigned; one returned by Generate or Parse is signed and carries its wire
// form. Tokens are never modified after construction.
type Token struct {
	codec            *Codec
	identifierPrefix string

	tokenIdentifier string
	customerID      string
	eventID         string
	issued          time.Time
	expires         time.Time
	ipAddress       string
	xForwardedFor   string
	payload         *Payload

	tokenWithoutHash string
	hashCode         string
}

// TokenBuilder folds With* calls into a Token. Each call copies the token
// built so far and changes one field, so builders can be branched.
type TokenBuilder struct {
	token Token
}

func (b TokenBuilder) WithEventID(eventID string) TokenBuilder {
	b.token.eventID = eventID
	return b
}

// WithValidity sets the expiry to the issue time plus validity.
func (b TokenBuilder) WithValidity(validity time.Duration) TokenBuilder {
	b.token.expires = truncateMillis(b.token.issued.Add(validity))
	return b
}

// WithValidityMillis is WithValidity for a validity given in milliseconds.
func (b TokenBuilder) WithValidityMillis(validityMillis int64) TokenBuilder {
	return b.WithValidity(time.Duration(validityMillis) * time.Millisecond)
}

// WithValidityDate sets the expiry directly. MaxDate and the zero time both
// mean the token does not expire.
func (b TokenBuilder) WithValidityDate(expires time.Time) TokenBuilder {
	b.token.expires = truncateMillis(expires)
	return b
}

// WithPayload attaches a payload. Nil removes any payload set earlier.
func (b TokenBuilder) WithPayload(payload *Payload) TokenBuilder {
	b.token.payload = payload
	return b
}

func (b TokenBuilder) WithIPAddress(ipAddress, xForwardedFor string) TokenBuilder {
	b.token.ipAddress = ipAddress
	b.token.xForwardedFor = xForwardedFor
	return b
}

// Build returns the unsigned token built so far.
func (b TokenBuilder) Build() *Token {
	t := b.token
	return &t
}

// Generate signs the token with a fresh identifier.
func (b TokenBuilder) Generate(secretKey string) (*Token, error) {
	return b.Build().Generate(secretKey, true)
}

// Generate returns a signed copy of t. When resetTokenIdentifier is true the
// copy gets a new identifier, which makes it a new token with the same
// content. The receiver is left untouched.
func (t *Token) Generate(secretKey string, resetTokenIdentifier bool) (*Token, error) {
	if err := validateSecretKey(secretKey); err != nil {
		return nil, err
	}
	if t.customerID == "" {
		return nil, newArgumentError("customerID", "customer id is required")
	}

	c := t.codec
	if c == nil {
		c = defaultCodec()
	}

	out := *t
	out.codec = c
	out.tokenWithoutHash = ""
	out.hashCode = ""
	if resetTokenIdentifier {
		out.tokenIdentifier = c.tokenIdentifier(out.identifierPrefix)
	}

	header, err := out.header()
	if err != nil {
		return nil, err
	}

	method, err := signing.MethodForVersion(string(out.Version()))
	if err != nil {
		return nil, &SerializationError{Message: "unable to serialize token", Err: err}
	}

	headerSegment, err := core.EncodeHeader(header)
	if err != nil {
		return nil, &SerializationError{Message: "unable to serialize token", Err: err}
	}

	var payloadSegment string
	if out.payload != nil {
		payloadSegment, err = out.payload.EncryptAndEncode(secretKey, out.tokenIdentifier)
		if err != nil {
			return nil, err
		}
	}

	out.tokenWithoutHash = core.Segments{Header: headerSegment, Payload: payloadSegment}.SigningString()
	out.hashCode = method.Sign(out.tokenWithoutHash, secretKey)

	c.logger.Debug("token generated",
		"customer_id", out.customerID,
		"token_identifier", out.tokenIdentifier,
		"has_payload", out.payload != nil,
	)

	return &out, nil
}

func (t *Token) header() (core.Header, error) {
	issued, err := toEpochMillis("issued", t.issued)
	if err != nil {
		return core.Header{}, err
	}

	expires, err := expiresToWire(t.expires)
	if err != nil {
		return core.Header{}, err
	}

	return core.Header{
		TokenVersion:    string(t.Version()),
		Encryption:      string(t.Encryption()),
		Issued:          issued,
		Expires:         expires,
		TokenIdentifier: t.tokenIdentifier,
		CustomerID:      t.customerID,
		EventID:         t.eventID,
		IPAddress:       t.ipAddress,
		XForwardedFor:   t.xForwardedFor,
	}, nil
}

func (t *Token) TokenIdentifier() string { return t.tokenIdentifier }
func (t *Token) CustomerID() string      { return t.customerID }
func (t *Token) EventID() string         { return t.eventID }
func (t *Token) Issued() time.Time       { return t.issued }
func (t *Token) IPAddress() string       { return t.ipAddress }
func (t *Token) XForwardedFor() string   { return t.xForwardedFor }

// Expires returns the expiry time, MaxDate when the token does not expire.
func (t *Token) Expires() time.Time {
	if t.expires.IsZero() {
		return MaxDate
	}
	return t.expires
}

// Version is always TokenVersionQT1.
func (t *Token) Version() TokenVersion { return TokenVersionQT1 }

// Encryption is always EncryptionAES256.
func (t *Token) Encryption() EncryptionType { return EncryptionAES256 }

// Payload returns the attached payload or nil.
func (t *Token) Payload() *Payload { return t.payload }

// TokenWithoutHash returns the header and payload segments joined by ".".
func (t *Token) TokenWithoutHash() string { return t.tokenWithoutHash }

// HashCode returns the integrity hash segment.
func (t *Token) HashCode() string { return t.hashCode }

// Token returns the full wire form, or "" for an unsigned token.
func (t *Token) Token() string {
	if !t.Signed() {
		return ""
	}
	return t.tokenWithoutHash + "." + t.hashCode
}

// Signed reports whether the token came from Generate or Parse.
func (t *Token) Signed() bool {
	return t.hashCode != ""
}

// HasExpiry reports whether the token carries an "exp" value.
func (t *Token) HasExpiry() bool {
	return !t.expires.IsZero() && !t.expires.Equal(MaxDate)
}

// IsExpired reports whether the token has an expiry before now. Parse never
// rejects expired tokens; callers decide what expiry means for them.
func (t *Token) IsExpired(now time.Time) bool {
	return t.HasExpiry() && now.After(t.expires)
}
