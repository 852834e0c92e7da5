package blobstore

import (
	"encoding/base64"
	"testing"
)

func TestDecodePayloadPlain(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03}
	data, err := DecodePayload(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("expected %v, got %v", raw, data)
	}
}

func TestDecodePayloadDataURL(t *testing.T) {
	raw := []byte("hello")
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	data, err := DecodePayload(encoded)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected %q, got %q", "hello", string(data))
	}
}

func TestDecodePayloadInvalid(t *testing.T) {
	if _, err := DecodePayload("!!! not base64 !!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestNormalizeSubtype(t *testing.T) {
	tests := []struct {
		subtype  string
		detected string
		want     string
		wantErr  bool
	}{
		{"jpeg", "image/jpeg", "jpeg", false},
		{"jpg", "image/jpeg", "jpeg", false},
		{"png", "image/png", "png", false},
		{"webp", "image/webp", "webp", false},
		// An empty tag would produce a key with a bare trailing dot.
		{"", "image/jpeg", "", true},
		// A tag with path separators would nest the object key.
		{"png/../../etc", "image/png", "", true},
		// A tag that contradicts the sniffed bytes.
		{"png", "image/jpeg", "", true},
	}
	for _, tt := range tests {
		got, err := normalizeSubtype(tt.subtype, tt.detected)
		if tt.wantErr {
			if err == nil {
				t.Errorf("normalizeSubtype(%q, %q): expected error", tt.subtype, tt.detected)
			}
			continue
		}
		if err != nil {
			t.Errorf("normalizeSubtype(%q, %q): %v", tt.subtype, tt.detected, err)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeSubtype(%q, %q) = %q, want %q", tt.subtype, tt.detected, got, tt.want)
		}
	}
}
