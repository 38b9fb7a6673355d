package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Secret123" {
		t.Fatalf("hash must differ from the plaintext")
	}
	if !CheckPasswordHash("Secret123", hash) {
		t.Fatalf("expected the password to verify against its hash")
	}
	if CheckPasswordHash("secret123", hash) {
		t.Fatalf("expected a different password to fail")
	}

	again, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if again == hash {
		t.Fatalf("expected salted hashes to differ")
	}
}

func TestCheckPasswordNoUser(t *testing.T) {
	for _, password := range []string{"", "Secret123", "no-such-user-placeholder"} {
		if CheckPasswordNoUser(password) {
			t.Fatalf("CheckPasswordNoUser(%q) must never succeed", password)
		}
	}

	cost, err := bcrypt.Cost(dummyHash)
	if err != nil {
		t.Fatalf("placeholder hash is not a bcrypt hash: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("placeholder hash cost %d differs from real hashes (%d)", cost, bcrypt.DefaultCost)
	}
}
