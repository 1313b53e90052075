package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "v0.3.0"

	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version v0.3.0\n") {
		t.Errorf("Template() = %q", tmpl)
	}
	if !strings.Contains(String(), "commit: "+Commit) {
		t.Errorf("String() = %q", String())
	}
}

func TestUserAgent(t *testing.T) {
	oldV, oldC := Version, Commit
	defer func() { Version, Commit = oldV, oldC }()

	tests := []struct {
		version, commit string
		want            string
	}{
		{"dev", "none", "freeboard/dev"},
		{"v0.3.0", "abc", "freeboard/v0.3.0"},
		{"v0.3.0", "0123456789abcdef", "freeboard/v0.3.0 (0123456)"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := UserAgent(); got != tt.want {
			t.Errorf("UserAgent() with %s/%s = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}
