// Package cryptox holds the key derivation and AEAD helpers used by the
// secure store, local accounts and encrypted backups.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedCiphertext is returned when sealed data is shorter than a nonce.
var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// MakeVerifier returns a SHA-256 digest of the master key. The verifier is
// stored locally so a password can be checked without keeping the key itself.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey derives a 32-byte AES-256 key from the password with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM. The random nonce is prepended to the
// returned ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. A wrong key or tampered data yields an error from GCM.
func Open(sealed, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aead.NonceSize()
	if len(sealed) < ns {
		return nil, ErrMalformedCiphertext
	}

	return aead.Open(nil, sealed[:ns], sealed[ns:], nil)
}

// SealJSON marshals v to JSON and seals it.
func SealJSON(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Seal(plaintext, key)
}

// OpenJSON opens sealed data and unmarshals the JSON payload into v.
func OpenJSON(sealed, key []byte, v any) error {
	plaintext, err := Open(sealed, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}
