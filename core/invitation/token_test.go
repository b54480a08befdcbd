package invitation

import (
	"bytes"
	"testing"
)

func Test_generateToken(t *testing.T) {
	for _, length := range []int{4, 6, 12} {
		token, err := generateToken(length)
		if err != nil {
			t.Fatalf("generateToken(%d) failed: %v", length, err)
		}
		if len(token) != length {
			t.Errorf("generateToken(%d) = %q, want length %d", length, token, length)
		}
		for _, c := range []byte(token) {
			if !bytes.ContainsRune(tokenAlphabet, rune(c)) {
				t.Errorf("generateToken(%d) = %q, %q not in alphabet", length, token, c)
			}
		}
	}
}

// generated tokens must survive the normalizer untouched
func Test_generateToken_normalizes(t *testing.T) {
	token, err := generateToken(6)
	if err != nil {
		t.Fatalf("generateToken() failed: %v", err)
	}
	code, err := Normalize(token)
	if err != nil {
		t.Fatalf("Normalize(%q) failed: %v", token, err)
	}
	if code != token {
		t.Errorf("Normalize(%q) = %q, want it unchanged", token, code)
	}
}
