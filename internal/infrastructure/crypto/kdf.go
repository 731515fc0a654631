package crypto

import (
	"crypto/md5"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Method selects the key/IV derivation used for a container. The two methods
// are deliberately incompatible: a container produced with one cannot be
// opened with the other, even under the same passphrase and salt.
type Method int

const (
	// MethodPBKDF2 derives key material with PBKDF2-HMAC-SHA256. This is the
	// default for everything this service writes.
	MethodPBKDF2 Method = iota

	// MethodLegacyEVP replicates OpenSSL's pre-1.1.0 EVP_BytesToKey with MD5,
	// matching `openssl enc -aes-256-cbc -salt -md md5`. Kept for decrypting
	// data from the legacy era.
	MethodLegacyEVP
)

func (m Method) String() string {
	switch m {
	case MethodPBKDF2:
		return "pbkdf2"
	case MethodLegacyEVP:
		return "legacy-evp"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// derivationOrder is the sequence auto-detecting Decrypt walks through.
// Stored data may originate from either derivation era, so both are tried.
var derivationOrder = []Method{MethodPBKDF2, MethodLegacyEVP}

// deriveKeyIV produces the 32-byte AES key and 16-byte IV for a container.
func (m Method) deriveKeyIV(passphrase string, salt []byte) (key, iv []byte) {
	switch m {
	case MethodLegacyEVP:
		return deriveKeyIVLegacyEVP(passphrase, salt)
	default:
		return deriveKeyIVPBKDF2(passphrase, salt)
	}
}

// deriveKeyIVPBKDF2 stretches the passphrase with PBKDF2-HMAC-SHA256 into
// 48 bytes: the first 32 become the key, the remaining 16 the IV.
func deriveKeyIVPBKDF2(passphrase string, salt []byte) (key, iv []byte) {
	material := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keyLength+ivLength, sha256.New)
	return material[:keyLength], material[keyLength:]
}

// deriveKeyIVLegacyEVP reimplements OpenSSL's historical EVP_BytesToKey:
// D_i = MD5(D_{i-1} || passphrase || salt), concatenated until 48 bytes are
// available. Must stay bit-exact for cross-tool compatibility.
func deriveKeyIVLegacyEVP(passphrase string, salt []byte) (key, iv []byte) {
	pass := []byte(passphrase)
	material := make([]byte, 0, keyLength+ivLength)
	var prev []byte

	for len(material) < keyLength+ivLength {
		h := md5.New()
		h.Write(prev)
		h.Write(pass)
		h.Write(salt)
		prev = h.Sum(nil)
		material = append(material, prev...)
	}

	return material[:keyLength], material[keyLength : keyLength+ivLength]
}
