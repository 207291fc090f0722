package passhash

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Errorf("digest %q is not bcrypt-tagged", digest)
	}
	if digest == "Str0ng!Pass" {
		t.Fatal("digest equals plaintext")
	}

	if !Verify("Str0ng!Pass", digest) {
		t.Error("correct password did not verify")
	}
	if Verify("Wr0ng!Pass", digest) {
		t.Error("wrong password verified")
	}
}

func TestHash_UniqueSalt(t *testing.T) {
	a, err := Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	b, err := Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical; salt is not per-call")
	}
}

func TestVerify_LegacyPBKDF2(t *testing.T) {
	// pbkdf2_hmac("sha256", "Str0ng!Pass", "gTlcCW5mGyRZ", 600000)
	const legacy = "pbkdf2:sha256:600000$gTlcCW5mGyRZ$a80af8ef9f30293032c64984c753cac768880b992474ef7a9529a157dca9faa7"

	if !Verify("Str0ng!Pass", legacy) {
		t.Error("legacy digest did not verify")
	}
	if Verify("wrong", legacy) {
		t.Error("wrong password verified against legacy digest")
	}
}

func TestVerify_MalformedDigests(t *testing.T) {
	tests := []struct {
		name   string
		digest string
	}{
		{"empty", ""},
		{"unknown scheme", "md5$abc$def"},
		{"plaintext", "Str0ng!Pass"},
		{"legacy missing fields", "pbkdf2:sha256:600000$onlysalt"},
		{"legacy bad iterations", "pbkdf2:sha256:abc$salt$00ff"},
		{"legacy bad hex", "pbkdf2:sha256:1000$salt$zzzz"},
		{"legacy wrong primitive", "pbkdf2:sha512:1000$salt$00ff"},
		{"truncated bcrypt", "$2b$12$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Verify("Str0ng!Pass", tt.digest) {
				t.Errorf("Verify accepted %q", tt.digest)
			}
		})
	}
}
