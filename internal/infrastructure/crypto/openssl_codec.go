// Package crypto implements the OpenSSL "Salted__" container codec used for
// configuration storage: AES-256-CBC with PKCS#7 padding, key material derived
// from a passphrase with either PBKDF2-HMAC-SHA256 or the legacy MD5-based
// EVP_BytesToKey. The wire format is exactly what `openssl enc -aes-256-cbc`
// produces:
//
//	"Salted__" (8 bytes) || salt (8 bytes) || ciphertext (n*16 bytes)
//
// base64-encoded with the standard alphabet and no line wraps.
//
// The format carries no integrity tag. Tampering yields garbage plaintext or a
// padding error, never a verified failure; adding an AEAD layer would break
// interoperability with the legacy data this codec exists to read.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

const (
	saltedPrefix = "Salted__"
	saltLength   = 8
	keyLength    = 32
	ivLength     = 16

	pbkdf2Iterations = 10000

	// Base64 of the 8-byte magic. The 4-chars-per-3-bytes grouping makes this
	// prefix invariant across salts and payloads.
	encryptedPrefix = "U2FsdGVkX1"
)

// Codec encrypts and decrypts Salted__ containers under a single passphrase.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	passphrase string
}

// New builds a codec for the given passphrase. Callers needing a different
// passphrase construct another codec; there is no package-wide default.
func New(passphrase string) *Codec {
	return &Codec{passphrase: passphrase}
}

// Encrypt seals plaintext with a fresh random 8-byte salt and PBKDF2-derived
// key material. Two calls with identical input produce different containers.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("crypto: salt generation failure: %w", err)
	}
	return c.seal(plaintext, salt, MethodPBKDF2)
}

// EncryptLegacy seals plaintext with a random salt using the legacy MD5-based
// derivation, for producing data readable by pre-1.1.0 OpenSSL tooling.
func (c *Codec) EncryptLegacy(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("crypto: salt generation failure: %w", err)
	}
	return c.seal(plaintext, salt, MethodLegacyEVP)
}

// EncryptDeterministic seals plaintext with the caller-supplied salt. Given
// identical plaintext, passphrase and salt the output is byte-for-byte
// reproducible, which the storage layer relies on for idempotent writes.
func (c *Codec) EncryptDeterministic(plaintext string, salt []byte) (string, error) {
	if len(salt) != saltLength {
		return "", fmt.Errorf("crypto: salt must be %d bytes, got %d", saltLength, len(salt))
	}
	return c.seal(plaintext, salt, MethodPBKDF2)
}

// Decrypt opens a container, trying each derivation method in order: PBKDF2
// first, then the legacy EVP_BytesToKey fallback. This two-attempt policy is
// not a security boundary; corrupted input simply exhausts both attempts.
func (c *Codec) Decrypt(encrypted string) (string, error) {
	var attempts []error
	for _, method := range derivationOrder {
		plaintext, err := c.open(encrypted, method)
		if err == nil {
			return plaintext, nil
		}
		attempts = append(attempts, fmt.Errorf("%s: %w", method, err))
	}
	return "", errors.Join(ErrAllMethodsFailed, errors.Join(attempts...))
}

// DecryptPBKDF2 opens a container using only the PBKDF2 derivation.
func (c *Codec) DecryptPBKDF2(encrypted string) (string, error) {
	return c.open(encrypted, MethodPBKDF2)
}

// DecryptLegacy opens a container using only the legacy MD5 derivation.
func (c *Codec) DecryptLegacy(encrypted string) (string, error) {
	return c.open(encrypted, MethodLegacyEVP)
}

// IsEncrypted reports whether text looks like a base64 Salted__ container.
func (c *Codec) IsEncrypted(text string) bool { return IsEncrypted(text) }

// ExtractSalt returns the salt of a container without decrypting it.
func (c *Codec) ExtractSalt(encrypted string) ([]byte, error) { return ExtractSalt(encrypted) }

// IsEncrypted reports whether text starts with the fixed base64 prefix of the
// Salted__ magic. A heuristic only: any string with this prefix is treated as
// "looks encrypted" regardless of validity.
func IsEncrypted(text string) bool {
	if len(text) < 12 {
		return false
	}
	return text[:len(encryptedPrefix)] == encryptedPrefix
}

// ExtractSalt decodes a container header and returns its 8 salt bytes. It
// validates only the header, not the ciphertext body.
func ExtractSalt(encrypted string) ([]byte, error) {
	salt, _, err := parseContainer(encrypted)
	if err != nil {
		return nil, err
	}
	out := make([]byte, saltLength)
	copy(out, salt)
	return out, nil
}

// seal runs the encrypt side: derive, pad, CBC-encrypt, frame, base64.
func (c *Codec) seal(plaintext string, salt []byte, method Method) (string, error) {
	key, iv := method.deriveKeyIV(c.passphrase, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("crypto: block cipher failure: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	container := make([]byte, 0, len(saltedPrefix)+saltLength+len(ciphertext))
	container = append(container, saltedPrefix...)
	container = append(container, salt...)
	container = append(container, ciphertext...)

	return base64.StdEncoding.EncodeToString(container), nil
}

// open runs the decrypt side for a single derivation method.
func (c *Codec) open(encrypted string, method Method) (string, error) {
	salt, ciphertext, err := parseContainer(encrypted)
	if err != nil {
		return "", err
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d",
			ErrInvalidFormat, len(ciphertext), aes.BlockSize)
	}

	key, iv := method.deriveKeyIV(c.passphrase, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("crypto: block cipher failure: %w", err)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	if !utf8.Valid(plaintext) {
		return "", ErrInvalidUTF8
	}

	return string(plaintext), nil
}

// parseContainer base64-decodes and validates the Salted__ header, returning
// the salt and ciphertext slices.
func parseContainer(encrypted string) (salt, ciphertext []byte, err error) {
	decoded, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid base64: %v", ErrInvalidFormat, err)
	}
	if len(decoded) < len(saltedPrefix)+saltLength {
		return nil, nil, fmt.Errorf("%w: container truncated at %d bytes", ErrInvalidFormat, len(decoded))
	}
	if string(decoded[:len(saltedPrefix)]) != saltedPrefix {
		return nil, nil, fmt.Errorf("%w: missing %q prefix", ErrInvalidFormat, saltedPrefix)
	}

	salt = decoded[len(saltedPrefix) : len(saltedPrefix)+saltLength]
	ciphertext = decoded[len(saltedPrefix)+saltLength:]
	return salt, ciphertext, nil
}

// pkcs7Pad appends 1..blockSize bytes, each holding the pad length. Even an
// empty plaintext gains a full block of padding.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// pkcs7Unpad validates and strips the padding produced by pkcs7Pad.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-padLen], nil
}
