package encryption

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecretKey  = "5ebbf794-1665-4d48-80d6-21ac34be7faedf9e10b3-551a-4682-bb77-fee59d6355d6"
	testIdentifier = "a21d423a-43fd-4821-84fa-4390f6a2fd3e"
)

func b64(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func TestDeriveKey(t *testing.T) {
	key := DeriveKey("some text.")
	assert.Len(t, key, KeySize)
	assert.Equal(t, "ec88666e7bd0815c742f4194064632980777823ef3f58d235f958c205284af27", hex.EncodeToString(key))
}

func TestDeriveIV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii", "some text", "552e21cd4cd9918678e3c1a0df491bc3"},
		{"utf-8", "ሰማይ አይታረስ ንጉሥ አይከሰስ።", "67a65157fd7b9d52409d762cfc7a2309"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := DeriveIV(tt.input)
			assert.Len(t, iv, IVSize)
			assert.Equal(t, tt.want, hex.EncodeToString(iv))
		})
	}
}

func TestEncryptCBCKnownAnswer(t *testing.T) {
	key := []byte("12345678901234567890123456789012")
	iv := []byte("1234567890123456")

	ciphertext, err := EncryptCBC(key, iv, []byte("some text."))
	require.NoError(t, err)
	assert.Equal(t, "JMItZ2KiunOWZVLGkTQ5EQ", b64(ciphertext))

	plaintext, err := DecryptCBC(key, iv, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "some text.", string(plaintext))
}

func TestEncryptPayloadVectors(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
		want      string
	}{
		{
			name:      "key and relative quality",
			plaintext: `{"r":0.45678663514,"k":"somekey"}`,
			want:      "0rDlI69F1Dx4Twps5qD4cQrbXbCRiezBd6fH1PVm6CloFzIj6sbdeItH-K5iOaF5",
		},
		{
			name:      "empty object",
			plaintext: `{}`,
			want:      "GfNP_Qp3Wcter-Sc100Yvg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, err := Encrypt(testSecretKey, testIdentifier, []byte(tt.plaintext))
			require.NoError(t, err)
			assert.Equal(t, tt.want, b64(ciphertext))

			plaintext, err := Decrypt(testSecretKey, testIdentifier, ciphertext)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, string(plaintext))
		})
	}
}

func TestEncryptRoundTripLengths(t *testing.T) {
	for n := 0; n <= 48; n++ {
		plaintext := make([]byte, n)
		for i := range plaintext {
			plaintext[i] = byte(i + n)
		}

		ciphertext, err := Encrypt(testSecretKey, testIdentifier, plaintext)
		require.NoError(t, err)
		assert.Zero(t, len(ciphertext)%IVSize)
		assert.Greater(t, len(ciphertext), n)

		got, err := Decrypt(testSecretKey, testIdentifier, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestDecryptWrongInputs(t *testing.T) {
	ciphertext, err := Encrypt(testSecretKey, testIdentifier, []byte(`{"k":"somekey"}`))
	require.NoError(t, err)

	t.Run("wrong identifier", func(t *testing.T) {
		plaintext, err := Decrypt(testSecretKey, "other-identifier", ciphertext)
		if err == nil {
			assert.NotEqual(t, `{"k":"somekey"}`, string(plaintext))
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		plaintext, err := Decrypt("other-secret", testIdentifier, ciphertext)
		if err == nil {
			assert.NotEqual(t, `{"k":"somekey"}`, string(plaintext))
		}
	})
}

func TestDecryptErrors(t *testing.T) {
	key := make([]byte, KeySize)
	iv := make([]byte, IVSize)

	tests := []struct {
		name       string
		key, iv    []byte
		ciphertext []byte
		wantErr    error
	}{
		{"empty ciphertext", key, iv, nil, ErrEmptyCiphertext},
		{"partial block", key, iv, make([]byte, 15), ErrInvalidBlockSize},
		{"short key", key[:16], iv, make([]byte, 16), ErrInvalidKeyLength},
		{"short iv", key, iv[:8], make([]byte, 16), ErrInvalidIVLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecryptCBC(tt.key, tt.iv, tt.ciphertext)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEncryptRejectsEmptyInputs(t *testing.T) {
	_, err := Encrypt("", testIdentifier, []byte("{}"))
	assert.ErrorIs(t, err, ErrEmptySecretKey)

	_, err = Encrypt(testSecretKey, "", []byte("{}"))
	assert.ErrorIs(t, err, ErrEmptyIdentifier)

	_, err = Decrypt("", testIdentifier, make([]byte, 16))
	assert.ErrorIs(t, err, ErrEmptySecretKey)
}

func TestUnpad(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    []byte
		wantErr bool
	}{
		{"full block of padding", append([]byte("0123456789abcdef"), bytes16(16)...), []byte("0123456789abcdef"), false},
		{"one byte", append([]byte("0123456789abcde"), 1), []byte("0123456789abcde"), false},
		{"zero pad byte", append([]byte("0123456789abcde"), 0), nil, true},
		{"pad larger than block", append([]byte("0123456789abcde"), 17), nil, true},
		{"inconsistent padding", append([]byte("0123456789abcd"), 3, 2), nil, true},
		{"empty", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unpad(tt.data, IVSize)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPadding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPadDoesNotAlias(t *testing.T) {
	data := make([]byte, 4, 64)
	copy(data, "abcd")

	padded := pad(data, IVSize)
	assert.Len(t, padded, IVSize)
	assert.Equal(t, []byte("abcd"), data)
}

func bytes16(n byte) []byte {
	out := make([]byte, 16)
	for i := range out {
		out[i] = n
	}
	return out
}
