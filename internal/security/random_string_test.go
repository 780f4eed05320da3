package security

import (
	"strings"
	"testing"
	"unicode"
)

func TestRandomString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		length   int
		alphabet string
		wantErr  bool
	}{
		{name: "negative length", length: -1, alphabet: "abc", wantErr: true},
		{name: "empty alphabet", length: 1, alphabet: "", wantErr: true},
		{name: "zero length", length: 0, alphabet: "abc"},
		{name: "single alphabet character", length: 8, alphabet: "X"},
		{name: "password alphabet", length: 64, alphabet: PasswordAlphabet},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := RandomString(test.length, test.alphabet)
			if test.wantErr {
				if err == nil {
					t.Fatalf("RandomString(%d, %q) expected error, got nil", test.length, test.alphabet)
				}
				return
			}
			if err != nil {
				t.Fatalf("RandomString(%d, %q) returned error: %v", test.length, test.alphabet, err)
			}
			if len(got) != test.length {
				t.Fatalf("RandomString(%d, %q) len = %d, want %d", test.length, test.alphabet, len(got), test.length)
			}
			for _, char := range got {
				if !strings.ContainsRune(test.alphabet, char) {
					t.Fatalf("RandomString(%d, %q) produced char %q outside alphabet", test.length, test.alphabet, char)
				}
			}
		})
	}
}

func TestTemporaryPasswordMixesCharacterClasses(t *testing.T) {
	t.Parallel()

	for range 50 {
		password, err := TemporaryPassword(8)
		if err != nil {
			t.Fatalf("TemporaryPassword returned error: %v", err)
		}
		if len(password) != 8 {
			t.Fatalf("TemporaryPassword len = %d, want 8", len(password))
		}

		var upper, lower, digit bool
		for _, char := range password {
			switch {
			case unicode.IsUpper(char):
				upper = true
			case unicode.IsLower(char):
				lower = true
			case unicode.IsDigit(char):
				digit = true
			}
			if !strings.ContainsRune(PasswordAlphabet, char) {
				t.Fatalf("password %q contains char %q outside alphabet", password, char)
			}
		}
		if !upper || !lower || !digit {
			t.Fatalf("password %q misses a character class", password)
		}
	}
}

func TestTemporaryPasswordMinimumLength(t *testing.T) {
	t.Parallel()

	password, err := TemporaryPassword(3)
	if err != nil {
		t.Fatalf("TemporaryPassword returned error: %v", err)
	}
	if len(password) != 8 {
		t.Fatalf("TemporaryPassword len = %d, want 8", len(password))
	}
}
