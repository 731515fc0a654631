package domain

// CipherCodec is the contract for the OpenSSL-compatible storage codec.
// Implementations carry their own passphrase; there is no process-wide default.
type CipherCodec interface {
	// Encrypt produces a Salted__ container with a fresh random salt.
	Encrypt(plaintext string) (string, error)

	// EncryptDeterministic produces a byte-for-byte reproducible container
	// for the given 8-byte salt. The storage layer relies on this for
	// idempotent re-encryption.
	EncryptDeterministic(plaintext string, salt []byte) (string, error)

	// Decrypt auto-detects the key derivation method (PBKDF2 first, then the
	// legacy MD5-based EVP_BytesToKey) before giving up.
	Decrypt(encrypted string) (string, error)

	// IsEncrypted reports whether text looks like a base64 Salted__ container.
	// It is a prefix heuristic, not a validity check.
	IsEncrypted(text string) bool

	// ExtractSalt returns the 8 salt bytes of a container without decrypting it.
	ExtractSalt(encrypted string) ([]byte, error)
}
