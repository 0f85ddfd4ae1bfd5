package queuetoken

import (
	"maps"

	"github.com/cybergodev/queuetoken/internal/core"
	"github.com/cybergodev/queuetoken/internal/encryption"
)

// Payload is the optional confidential part of a token. It is immutable:
// every PayloadBuilder step produces a new value and accessors return copies.
type Payload struct {
	key                string
	relativeQuality    float64
	hasRelativeQuality bool
	customData         map[string]string
	origin             Origin
}

// PayloadBuilder folds With* calls into a Payload. Builders are values, so a
// partially built chain can be branched freely.
type PayloadBuilder struct {
	payload Payload
}

// EnqueuePayload starts an empty payload.
func EnqueuePayload() PayloadBuilder {
	return PayloadBuilder{}
}

// WithKey sets the queue entry key. An empty key keeps the previous one.
func (b PayloadBuilder) WithKey(key string) PayloadBuilder {
	if key != "" {
		b.payload.key = key
	}
	return b
}

func (b PayloadBuilder) WithRelativeQuality(relativeQuality float64) PayloadBuilder {
	b.payload.relativeQuality = relativeQuality
	b.payload.hasRelativeQuality = true
	return b
}

// WithCustomData adds or replaces one custom data entry. The map is copied,
// so branches derived from the same builder never share entries.
func (b PayloadBuilder) WithCustomData(key, value string) PayloadBuilder {
	data := make(map[string]string, len(b.payload.customData)+1)
	maps.Copy(data, b.payload.customData)
	data[key] = value
	b.payload.customData = data
	return b
}

func (b PayloadBuilder) WithOrigin(origin Origin) PayloadBuilder {
	b.payload.origin = origin
	return b
}

// Generate returns the payload built so far.
func (b PayloadBuilder) Generate() *Payload {
	p := b.payload
	return &p
}

func (p *Payload) Key() string {
	return p.key
}

// RelativeQuality returns the ranking hint and whether one was set.
func (p *Payload) RelativeQuality() (float64, bool) {
	return p.relativeQuality, p.hasRelativeQuality
}

// CustomData returns a copy of the custom data entries. It is never nil.
func (p *Payload) CustomData() map[string]string {
	data := make(map[string]string, len(p.customData))
	maps.Copy(data, p.customData)
	return data
}

func (p *Payload) Origin() Origin {
	return p.origin
}

// Serialize returns the compact JSON form of the payload. A payload with no
// fields set serialises to "{}".
func (p *Payload) Serialize() ([]byte, error) {
	data, err := core.MarshalPayload(p.claims())
	if err != nil {
		return nil, &SerializationError{Message: "failed to serialize payload", Err: err}
	}
	return data, nil
}

// EncryptAndEncode serialises, encrypts and base64url encodes the payload for
// the given token identifier.
func (p *Payload) EncryptAndEncode(secretKey, tokenIdentifier string) (string, error) {
	plaintext, err := p.Serialize()
	if err != nil {
		return "", err
	}

	ciphertext, err := encryption.Encrypt(secretKey, tokenIdentifier, plaintext)
	if err != nil {
		return "", &SerializationError{Message: "failed to encrypt payload", Err: err}
	}
	return core.EncodeBase64URL(ciphertext), nil
}

// DeserializePayload reverses EncryptAndEncode. A payload that decrypts to
// JSON null yields a nil Payload and no error.
func DeserializePayload(segment, secretKey, tokenIdentifier string) (*Payload, error) {
	ciphertext, err := core.DecodeBase64URL(segment)
	if err != nil {
		return nil, &DeserializationError{Message: "failed to decode payload", Err: err}
	}

	plaintext, err := encryption.Decrypt(secretKey, tokenIdentifier, ciphertext)
	if err != nil {
		return nil, &DeserializationError{Message: "failed to decrypt payload", Err: err}
	}

	claims, err := core.UnmarshalPayload(plaintext)
	if err != nil {
		return nil, &DeserializationError{Message: "failed to read payload", Err: err}
	}
	if claims == nil {
		return nil, nil
	}

	return payloadFromClaims(claims), nil
}

func (p *Payload) claims() core.PayloadClaims {
	claims := core.PayloadClaims{
		Key:        p.key,
		CustomData: p.customData,
		Origin:     int(p.origin),
	}
	if p.hasRelativeQuality {
		r := p.relativeQuality
		claims.RelativeQuality = &r
	}
	return claims
}

func payloadFromClaims(claims *core.PayloadClaims) *Payload {
	p := &Payload{
		key:        claims.Key,
		customData: claims.CustomData,
		origin:     Origin(claims.Origin),
	}
	if claims.RelativeQuality != nil {
		p.relativeQuality = *claims.RelativeQuality
		p.hasRelativeQuality = true
	}
	return p
}
