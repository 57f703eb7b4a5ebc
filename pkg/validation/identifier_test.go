package validation

import (
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		// Valid identifiers
		{"simple", "default", false},
		{"single char", "a", false},
		{"task id", "phase1-1", false},
		{"field id", "target_audience", false},
		{"digits first ok after letter rule relaxed", "2026-launch", false},
		{"max length", "a123456789012345678901234567890123456789012345678901234567890123", false},

		// Invalid identifiers
		{"empty", "", true},
		{"uppercase", "Phase1", true},
		{"slash", "a/b", true},
		{"dot dot", "..", true},
		{"space", "my project", true},
		{"leading hyphen", "-x", true},
		{"too long", "a1234567890123456789012345678901234567890123456789012345678901234", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIdentifiers(t *testing.T) {
	if err := ValidateIdentifiers([]string{"phase1-1", "phase2-3"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := ValidateIdentifiers([]string{"ok", "Not OK", ""})
	if err == nil {
		t.Fatal("expected error for invalid identifiers")
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	got, err := SanitizeIdentifier("  Phase1-1 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "phase1-1" {
		t.Errorf("got %q, want %q", got, "phase1-1")
	}

	if _, err := SanitizeIdentifier("a/b"); err == nil {
		t.Error("expected error for identifier with slash")
	}
}
