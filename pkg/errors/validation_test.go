package errors

import "testing"

func TestValidateWorkspaceID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "home", false},
		{"valid with dash", "team-board", false},
		{"valid uuid", "5f0c6f8e-3c1b-4b8e-9a57-0b7f1c2d3e4f", false},
		{"valid with colon", "user:42", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"traversal", "..", true},
		{"space", "my board", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkspaceID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWorkspaceID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://example.com/api"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateURL("ftp://example.com"); err == nil {
		t.Error("expected error for ftp scheme")
	}
	if err := ValidateURL(""); err == nil {
		t.Error("expected error for empty URL")
	}
}
