package util

import (
	"encoding/base64"
	"testing"
)

func TestParseImageDataURI_Valid(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("image bytes"))

	raw, ext, err := ParseImageDataURI("data:image/png;base64," + payload)
	if err != nil {
		t.Fatalf("ParseImageDataURI returned error: %v", err)
	}
	if ext != "png" {
		t.Errorf("ext = %q, want 'png'", ext)
	}
	if string(raw) != "image bytes" {
		t.Errorf("raw = %q, want 'image bytes'", raw)
	}
}

func TestParseImageDataURI_JPEG(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("x"))

	_, ext, err := ParseImageDataURI("data:image/jpeg;base64," + payload)
	if err != nil {
		t.Fatalf("ParseImageDataURI returned error: %v", err)
	}
	if ext != "jpeg" {
		t.Errorf("ext = %q, want 'jpeg'", ext)
	}
}

func TestParseImageDataURI_Invalid(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("x"))

	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"plain string", "not a data uri"},
		{"wrong scheme", "data:text/plain;base64," + payload},
		{"missing comma", "data:image/png;base64"},
		{"missing encoding", "data:image/png," + payload},
		{"wrong encoding", "data:image/png;base32," + payload},
		{"missing extension", "data:image/;base64," + payload},
		{"bad base64", "data:image/png;base64,!!!!"},
		{"empty payload", "data:image/png;base64,"},
	}
	for _, tc := range cases {
		if _, _, err := ParseImageDataURI(tc.in); err == nil {
			t.Errorf("%s: expected error for %q", tc.name, tc.in)
		}
	}
}
