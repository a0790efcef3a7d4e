package uid

import (
	"crypto/rand"
	"encoding/base64"
)

// Token generates url-safe random secrets such as oauth states and webhook
// secrets.
type Token struct {
	size int
}

// NewToken returns a generator of size random bytes per token.
func NewToken(size int) *Token {
	if size <= 0 {
		size = 32
	}
	return &Token{size: size}
}

func (t *Token) Generate() string {
	b := make([]byte, t.size)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
