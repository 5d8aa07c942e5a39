package service

import (
	"errors"
	"strings"
	"testing"

	"docvault/internal/domain"
)

func TestValidateFolderName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Taxes", false},
		{"with spaces", "Tax Returns 2026", false},
		{"minimum length", "ab", false},
		{"maximum length", strings.Repeat("x", 50), false},
		{"unicode", "Steuererklärung", false},
		{"dots and dashes", "v1.2-archive", false},

		{"empty", "", true},
		{"single char", "A", true},
		{"too long", strings.Repeat("x", 51), true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"colon", "a:b", true},
		{"asterisk", "a*b", true},
		{"question mark", "a?b", true},
		{"quote", `say "hi"`, true},
		{"angle brackets", "<dir>", true},
		{"pipe", "a|b", true},
		{"reserved CON", "CON", true},
		{"reserved lowercase", "con", true},
		{"reserved COM port", "COM7", true},
		{"reserved LPT port", "lpt1", true},
		{"reserved NUL", "Nul", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFolderName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("ValidateFolderName(%q) = %v, want validation error", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateFolderName(%q) = %v, want nil", tt.input, err)
			}
		})
	}
}

func TestValidateFolderNameNotReservedPrefix(t *testing.T) {
	// Names merely starting with a device name are fine.
	for _, name := range []string{"CONTRACTS", "Communication", "Console logs"} {
		if err := ValidateFolderName(name); err != nil {
			t.Errorf("ValidateFolderName(%q) = %v, want nil", name, err)
		}
	}
}
