package session

import (
	"strings"
	"testing"
)

func TestGeneratePasswordShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		pw, err := GeneratePassword()
		if err != nil {
			t.Fatalf("GeneratePassword() error = %v", err)
		}
		if len(pw) != 4 {
			t.Fatalf("len(password) = %d, want 4", len(pw))
		}
		for _, c := range pw {
			if !strings.ContainsRune(passwordCharset, c) {
				t.Fatalf("password %q contains %q outside the charset", pw, c)
			}
		}
		seen[pw] = true
	}
	// 100 draws from a 36^4 space colliding down to a handful would
	// mean the generator is broken.
	if len(seen) < 50 {
		t.Errorf("100 generated passwords produced only %d distinct values", len(seen))
	}
}

func TestPairingURL(t *testing.T) {
	got := PairingURL("https://badge2.example/pair", "A7K2")
	want := "https://badge2.example/pair?password=A7K2"
	if got != want {
		t.Errorf("PairingURL() = %q, want %q", got, want)
	}
}

func TestPairingURLPreservesExistingQuery(t *testing.T) {
	got := PairingURL("https://badge2.example/pair?lang=en", "A7K2")
	if !strings.Contains(got, "password=A7K2") || !strings.Contains(got, "lang=en") {
		t.Errorf("PairingURL() = %q, want both query params present", got)
	}
}
