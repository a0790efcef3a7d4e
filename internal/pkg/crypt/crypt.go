// Package crypt seals secrets at rest with AES-256-GCM.
//
// Ciphertext layout: 2-byte big endian version, 12-byte nonce, then the GCM
// output. The scope is bound as additional data, so a token sealed for one
// owner or purpose cannot be opened under another.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	version   uint16 = 1
	nonceSize        = 12
	keySize          = 32
)

var (
	ErrInvalidKey      = errors.New("crypt: key must be 32 bytes")
	ErrEmptyPlaintext  = errors.New("crypt: plaintext is empty")
	ErrCiphertextShort = errors.New("crypt: ciphertext too short")
	ErrVersion         = errors.New("crypt: unsupported ciphertext version")
	ErrDecrypt         = errors.New("crypt: decrypt failed")
)

// Scope binds a ciphertext to its owner and purpose.
type Scope struct {
	Owner   string
	Purpose string
}

type Encryptor interface {
	Encrypt(plaintext []byte, scope Scope) ([]byte, error)
	Decrypt(ciphertext []byte, scope Scope) ([]byte, error)
}

type AESGCM struct {
	aead cipher.AEAD
}

func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKey, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &AESGCM{aead: aead}, nil
}

func (a *AESGCM) Encrypt(plaintext []byte, scope Scope) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyPlaintext
	}

	out := make([]byte, 2+nonceSize, 2+nonceSize+len(plaintext)+a.aead.Overhead())
	binary.BigEndian.PutUint16(out, version)
	if _, err := rand.Read(out[2:]); err != nil {
		return nil, fmt.Errorf("crypt: nonce: %w", err)
	}

	return a.aead.Seal(out, out[2:2+nonceSize], plaintext, aad(scope)), nil
}

func (a *AESGCM) Decrypt(ciphertext []byte, scope Scope) ([]byte, error) {
	if len(ciphertext) < 2+nonceSize+a.aead.Overhead() {
		return nil, ErrCiphertextShort
	}
	if binary.BigEndian.Uint16(ciphertext) != version {
		return nil, ErrVersion
	}

	plain, err := a.aead.Open(nil, ciphertext[2:2+nonceSize], ciphertext[2+nonceSize:], aad(scope))
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

func aad(s Scope) []byte {
	sum := sha256.Sum256([]byte("owner=" + s.Owner + "\npurpose=" + s.Purpose + "\n"))
	return sum[:]
}
