package errors

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Quarterly Review", "Quarterly Review"},
		{"punctuation dropped", "Q3: Review (final)!", "Q3 Review final"},
		{"dash and underscore kept", "deck_v2-final", "deck_v2-final"},
		{"trailing spaces trimmed", "Deck   ", "Deck"},
		{"leading spaces kept", "  Deck", "  Deck"},
		{"path separators dropped", "../../etc/passwd", "etcpasswd"},
		{"unicode letters kept", "Präsentation", "Präsentation"},
		{"empty", "", DefaultFileName},
		{"only symbols", "!!!///", DefaultFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileNameTruncates(t *testing.T) {
	got := SanitizeFileName(strings.Repeat("ä", 300))
	if len(got) > maxFileNameLength {
		t.Errorf("len = %d, want <= %d", len(got), maxFileNameLength)
	}
	if !strings.HasPrefix(got, "ä") || strings.ContainsRune(got, '�') {
		t.Errorf("truncation split a rune: %q", got[len(got)-4:])
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "scene.json", false},
		{"absolute", "/tmp/scene.json", false},
		{"nested", "exports/deck/scene.json", false},

		{"empty", "", true},
		{"null byte", "scene\x00.json", true},
		{"control char", "scene\x01.json", true},
		{"too long", strings.Repeat("a", 5000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		schemes []string
		wantErr bool
	}{
		{"https", "https://example.com", nil, false},
		{"http", "http://localhost:8000", nil, false},
		{"redis", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},
		{"mongo", "mongodb://localhost:27017", []string{"mongodb", "mongodb+srv"}, false},
		{"empty", "", nil, true},
		{"ftp", "ftp://example.com", nil, true},
		{"wrong scheme for redis", "http://localhost", []string{"redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
