// Package encryption wraps the block cipher and digests that protect the
// payload segment: AES-256-CBC with PKCS#7 padding, a key derived with
// SHA-256 from the shared secret and an IV derived with MD5 from the token
// identifier.
package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/cybergodev/queuetoken/internal/security"
)

const (
	// KeySize is the AES-256 key length produced by DeriveKey
	KeySize = sha256.Size

	// IVSize is the CBC initialisation vector length produced by DeriveIV
	IVSize = aes.BlockSize
)

// Cipher errors
var (
	ErrEmptyCiphertext  = errors.New("ciphertext is empty")
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of the block size")
	ErrInvalidPadding   = errors.New("invalid PKCS#7 padding")
	ErrInvalidKeyLength = errors.New("key must be 32 bytes")
	ErrInvalidIVLength  = errors.New("iv must be 16 bytes")
	ErrEmptyIdentifier  = errors.New("token identifier is empty")
	ErrEmptySecretKey   = errors.New("secret key is empty")
)

// DeriveKey returns sha256(utf8(secretKey)).
func DeriveKey(secretKey string) []byte {
	sum := sha256.Sum256([]byte(secretKey))
	return sum[:]
}

// DeriveIV returns the first 16 bytes of md5(utf8(tokenIdentifier)).
func DeriveIV(tokenIdentifier string) []byte {
	sum := md5.Sum([]byte(tokenIdentifier))
	return sum[:IVSize]
}

// Encrypt seals plaintext for the given secret key and token identifier.
func Encrypt(secretKey, tokenIdentifier string, plaintext []byte) ([]byte, error) {
	if err := checkInputs(secretKey, tokenIdentifier); err != nil {
		return nil, err
	}

	key := DeriveKey(secretKey)
	defer security.ZeroBytes(key)

	return EncryptCBC(key, DeriveIV(tokenIdentifier), plaintext)
}

// Decrypt opens ciphertext produced by Encrypt with the same inputs.
func Decrypt(secretKey, tokenIdentifier string, ciphertext []byte) ([]byte, error) {
	if err := checkInputs(secretKey, tokenIdentifier); err != nil {
		return nil, err
	}

	key := DeriveKey(secretKey)
	defer security.ZeroBytes(key)

	return DecryptCBC(key, DeriveIV(tokenIdentifier), ciphertext)
}

// EncryptCBC pads plaintext with PKCS#7 and encrypts it with AES-256-CBC.
func EncryptCBC(key, iv, plaintext []byte) ([]byte, error) {
	block, err := newBlock(key, iv)
	if err != nil {
		return nil, err
	}

	padded := pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// DecryptCBC decrypts AES-256-CBC ciphertext and strips PKCS#7 padding.
func DecryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := newBlock(key, iv)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) == 0 {
		return nil, ErrEmptyCiphertext
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidBlockSize, len(ciphertext))
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return unpad(out, aes.BlockSize)
}

func newBlock(key, iv []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(key))
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIVLength, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return block, nil
}

func checkInputs(secretKey, tokenIdentifier string) error {
	if secretKey == "" {
		return ErrEmptySecretKey
	}
	if tokenIdentifier == "" {
		return ErrEmptyIdentifier
	}
	return nil
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidPadding
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
