// Package passhash hashes and verifies account passwords.
//
// New digests are bcrypt. Verification also understands the legacy
// pbkdf2-sha256 digests written by the system this one replaced, so
// accounts migrate in place: a legacy digest keeps verifying until the
// next password change rewrites it as bcrypt.
package passhash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// Cost is the bcrypt work factor for new digests.
const Cost = 12

// legacyIterations is the pbkdf2 round count used when a legacy digest
// omits an explicit count.
const legacyIterations = 600000

// Hash produces a salted bcrypt digest of the plaintext.
func Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// digestFormat ties a self-described digest format to its comparator.
type digestFormat struct {
	match  func(digest string) bool
	verify func(plain, digest string) bool
}

var formats = []digestFormat{
	{match: isBcrypt, verify: verifyBcrypt},
	{match: isLegacyPBKDF2, verify: verifyLegacyPBKDF2},
}

// Verify reports whether plain matches digest. The digest's format marker
// selects the comparator; an unrecognized or malformed digest verifies
// false rather than erroring, so callers treat it as a plain credential
// mismatch.
func Verify(plain, digest string) bool {
	for _, f := range formats {
		if f.match(digest) {
			return f.verify(plain, digest)
		}
	}
	return false
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

func verifyBcrypt(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

func isLegacyPBKDF2(digest string) bool {
	return strings.HasPrefix(digest, "pbkdf2:")
}

// verifyLegacyPBKDF2 checks a "pbkdf2:sha256:<iterations>$<salt>$<hexdigest>"
// digest by recomputation and constant-time compare.
func verifyLegacyPBKDF2(plain, digest string) bool {
	parts := strings.SplitN(digest, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, wantHex := parts[0], parts[1], parts[2]

	methodParts := strings.Split(method, ":")
	if len(methodParts) < 2 || methodParts[0] != "pbkdf2" || methodParts[1] != "sha256" {
		return false
	}
	iterations := legacyIterations
	if len(methodParts) >= 3 {
		n, err := strconv.Atoi(methodParts[2])
		if err != nil || n <= 0 {
			return false
		}
		iterations = n
	}

	want, err := hex.DecodeString(wantHex)
	if err != nil || len(want) == 0 {
		return false
	}

	got := pbkdf2.Key([]byte(plain), []byte(salt), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
