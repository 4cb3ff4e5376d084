package service

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := hashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("hash = %q, want argon2id encoding", hash)
	}

	if !verifyPassword(hash, "correct horse battery staple") {
		t.Error("correct password rejected")
	}
	if verifyPassword(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordUsesUniqueSalts(t *testing.T) {
	first, err := hashPassword("same password")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	second, err := hashPassword("same password")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical, salt is not random")
	}
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	malformed := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$onlysalt",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$bogusparams$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!notbase64$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!notbase64",
	}
	for _, hash := range malformed {
		if verifyPassword(hash, "anything") {
			t.Errorf("verifyPassword accepted malformed hash %q", hash)
		}
	}
}
