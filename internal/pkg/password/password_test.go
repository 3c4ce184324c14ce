package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}

	if !Verify("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if Verify("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}
