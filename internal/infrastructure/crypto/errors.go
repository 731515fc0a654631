package crypto

import "errors"

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidFormat is returned for malformed containers: bad base64, a
	// missing Salted__ magic, a truncated header, or ciphertext that is not a
	// positive multiple of the AES block size.
	ErrInvalidFormat = errors.New("invalid encrypted data format")

	// ErrDecryption is returned when the cipher or padding rejects the input,
	// which almost always means a wrong passphrase or corrupted ciphertext.
	ErrDecryption = errors.New("decryption failed")

	// ErrInvalidUTF8 is returned when decryption succeeds mechanically but the
	// recovered bytes are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("decrypted data is not valid UTF-8")

	// ErrAllMethodsFailed is returned by auto-detecting Decrypt after both the
	// PBKDF2 and legacy derivations have been tried and rejected.
	ErrAllMethodsFailed = errors.New("decryption failed with both PBKDF2 and legacy EVP derivations")
)
