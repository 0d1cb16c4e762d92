package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// passwordSymbols is the fixed punctuation set accepted by the strength
// policy.
const passwordSymbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// HashPassword hashes a password with argon2id and a fresh random salt.
// It returns the PHC-encoded hash string and the base64 salt. Errors only
// on RNG faults.
func HashPassword(password string) (string, string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	saltEncoded := base64.RawStdEncoding.EncodeToString(salt)
	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		saltEncoded,
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, saltEncoded, nil
}

// CheckPasswordHash recomputes the argon2id hash with the parameters and
// salt stored in encodedHash and compares in constant time. A mismatched
// password returns (false, nil); only a malformed stored hash is an error.
func CheckPasswordHash(password, encodedHash string) (bool, error) {
	salt, hash, time, memory, threads, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(computed, hash) == 1, nil
}

// IsStrongPassword reports whether password contains at least one digit,
// one letter and one symbol from the fixed punctuation set. Length bounds
// are enforced by request validation, not here.
func IsStrongPassword(password string) bool {
	var hasDigit, hasLetter, hasSymbol bool
	for _, c := range password {
		switch {
		case '0' <= c && c <= '9':
			hasDigit = true
		case ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z'):
			hasLetter = true
		case strings.ContainsRune(passwordSymbols, c):
			hasSymbol = true
		}
	}
	return hasDigit && hasLetter && hasSymbol
}

// parsePHC splits a $argon2id$v=19$m=...,t=...,p=...$salt$hash string.
func parsePHC(encodedHash string) (salt, hash []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, nil, 0, 0, 0, fmt.Errorf("invalid password hash format")
	}
	if parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, fmt.Errorf("unsupported password hash algorithm %q", parts[1])
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("invalid argon2 version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, 0, 0, 0, fmt.Errorf("unsupported argon2 version %d", version)
	}

	for _, kv := range strings.Split(parts[3], ",") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, nil, 0, 0, 0, fmt.Errorf("invalid argon2 parameter %q", kv)
		}
		n, parseErr := strconv.ParseUint(value, 10, 32)
		if parseErr != nil {
			return nil, nil, 0, 0, 0, fmt.Errorf("invalid argon2 parameter %q: %w", kv, parseErr)
		}
		switch key {
		case "m":
			memory = uint32(n)
		case "t":
			time = uint32(n)
		case "p":
			threads = uint8(n)
		default:
			return nil, nil, 0, 0, 0, fmt.Errorf("unknown argon2 parameter %q", key)
		}
	}
	if memory == 0 || time == 0 || threads == 0 {
		return nil, nil, 0, 0, 0, fmt.Errorf("missing argon2 parameters")
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("invalid salt encoding: %w", err)
	}
	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(hash) == 0 {
		return nil, nil, 0, 0, 0, fmt.Errorf("empty hash")
	}

	return salt, hash, time, memory, threads, nil
}
