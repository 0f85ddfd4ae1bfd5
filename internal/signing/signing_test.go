package signing

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "5ebbf794-1665-4d48-80d6-21ac34be7faedf9e10b3-551a-4682-bb77-fee59d6355d6"

func TestHash(t *testing.T) {
	assert.Equal(t,
		"ec88666e7bd0815c742f4194064632980777823ef3f58d235f958c205284af27",
		hex.EncodeToString(Hash("some text", ".")),
	)
	assert.Equal(t, Hash("some text.", ""), Hash("some ", "text."))
}

func TestSignKnownTokens(t *testing.T) {
	tests := []struct {
		name          string
		signingString string
		want          string
	}{
		{
			name:          "header with ip and no payload",
			signingString: "eyJ0eXAiOiJRVDEiLCJlbmMiOiJBRVMyNTYiLCJpc3MiOjE1MzQ3MjMyMDAwMDAsImV4cCI6MTUzOTEyOTYwMDAwMCwidGkiOiJhMjFkNDIzYS00M2ZkLTQ4MjEtODRmYS00MzkwZjZhMmZkM2UiLCJjIjoidGlja2V0YW5pYSIsImUiOiJteWV2ZW50IiwiaXAiOiI1LjcuOC42IiwieGZmIjoiNDUuNjcuMi40LDM0LjU2LjMuMiJ9.",
			want:          "wUOdVDIKlrIqumpU33bShDPdvTkicRk3q4Z-Vs8epFc",
		},
		{
			name:          "minimal header",
			signingString: "eyJ0eXAiOiJRVDEiLCJlbmMiOiJBRVMyNTYiLCJpc3MiOjE1MzQ3MjMyMDAwMDAsInRpIjoiYTIxZDQyM2EtNDNmZC00ODIxLTg0ZmEtNDM5MGY2YTJmZDNlIiwiYyI6InRpY2tldGFuaWEifQ.",
			want:          "ChCRF4bTbt4zlOcvXLjQYouhgqgiNNNZqcci8VWoZIU",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Sign(tt.signingString, testSecretKey)
			assert.Equal(t, tt.want, sig)
			assert.Len(t, sig, 43)
			assert.NoError(t, Verify(tt.signingString, sig, testSecretKey))
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	signingString := "header.payload"
	sig := Sign(signingString, testSecretKey)
	require.Equal(t, "0TALpY8DvrBL1Y04Ur64bAhrAmBL_qiZQJCpAkvhIDs", sig)

	tests := []struct {
		name          string
		signingString string
		signature     string
		secretKey     string
	}{
		{"modified signing string", "header.payloaD", sig, testSecretKey},
		{"wrong secret", signingString, sig, "another-secret"},
		{"truncated signature", signingString, sig[:42], testSecretKey},
		{"empty signature", signingString, "", testSecretKey},
		{"modified signature", signingString, "1" + sig[1:], testSecretKey},
		{"lower cased signature", signingString, strings.ToLower(sig), testSecretKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Verify(tt.signingString, tt.signature, tt.secretKey), ErrSignatureMismatch)
		})
	}
}

func TestMethodForVersion(t *testing.T) {
	m, err := MethodForVersion("QT1")
	require.NoError(t, err)
	assert.Equal(t, "SHA256-CONCAT", m.Name())

	_, err = MethodForVersion("QT2")
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}
