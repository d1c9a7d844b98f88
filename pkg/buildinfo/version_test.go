package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: " + Version, "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q: %s", want, s)
		}
	}
}

func TestUserAgent(t *testing.T) {
	defer func(v string) { Version = v }(Version)

	Version = "v1.4.0"
	if got := UserAgent(); got != "figslides/1.4.0" {
		t.Errorf("UserAgent() = %q", got)
	}
}
