package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "pw1" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword("pw1", hash) {
		t.Error("correct password should verify")
	}
	if CheckPassword("pw2", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}
