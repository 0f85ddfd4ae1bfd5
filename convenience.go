package queuetoken

import (
	"sync"
)

var defaultCodec = sync.OnceValue(func() *Codec {
	c, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return c
})

// Enqueue starts a token for customerID using the default codec.
func Enqueue(customerID string, identifierPrefix ...string) TokenBuilder {
	return defaultCodec().Enqueue(customerID, identifierPrefix...)
}

// Parse verifies and decodes a token using the default codec. See Codec.Parse.
func Parse(token, secretKey string) (*Token, error) {
	return defaultCodec().Parse(token, secretKey)
}
