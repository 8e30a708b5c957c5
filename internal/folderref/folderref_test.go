package folderref

import (
	"errors"
	"testing"
)

func TestResolve_CanonicalID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain alphanumeric ID", "1AbCdEfGhIjKlMnOpQrStUvWxYz", "1AbCdEfGhIjKlMnOpQrStUvWxYz"},
		{"ID with hyphen and underscore", "1aB-cD_eF2gH3iJ4kL5mN6oP", "1aB-cD_eF2gH3iJ4kL5mN6oP"},
		{"ID with surrounding spaces", "  1AbCdEfGhIjKlMnOpQrStUvWxYz  ", "1AbCdEfGhIjKlMnOpQrStUvWxYz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.in)
			if err != nil {
				t.Fatalf("Resolve(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolve_ShareURLs(t *testing.T) {
	const id = "1AbCdEfGhIjKlMnOpQrStUvWxYz"
	tests := []struct {
		name string
		in   string
	}{
		{"drive folders URL", "https://drive.google.com/drive/folders/" + id},
		{"folders URL with sharing suffix", "https://drive.google.com/drive/folders/" + id + "?usp=sharing"},
		{"folders URL with trailing path", "https://drive.google.com/drive/u/0/folders/" + id},
		{"open?id= URL", "https://drive.google.com/open?id=" + id},
		{"id param with extra params", "https://drive.google.com/open?usp=drive_link&id=" + id},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.in)
			if err != nil {
				t.Fatalf("Resolve(%q) returned error: %v", tt.in, err)
			}
			if got != id {
				t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, id)
			}
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty string", ""},
		{"whitespace only", "   "},
		{"short token", "abc123"},
		{"URL without folder ID", "https://drive.google.com/drive/my-drive"},
		{"folders segment with short ID", "https://drive.google.com/drive/folders/short"},
		{"unrelated URL", "https://example.com/?q=hello"},
		{"free text", "please list the campaign folder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.in)
			if err == nil {
				t.Fatalf("Resolve(%q) succeeded, want error", tt.in)
			}
			var invalid *ErrInvalidReference
			if !errors.As(err, &invalid) {
				t.Errorf("Resolve(%q) error = %v, want *ErrInvalidReference", tt.in, err)
			}
		})
	}
}
