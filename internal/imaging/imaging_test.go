package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return buf.Bytes()
}

func TestValidatePNG(t *testing.T) {
	mime, err := Validate(encodePNG(t))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("expected image/png, got %q", mime)
	}
}

func TestValidateJPEG(t *testing.T) {
	mime, err := Validate(encodeJPEG(t))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", mime)
	}
}

func TestValidateRejectsNonImage(t *testing.T) {
	if _, err := Validate([]byte("definitely not an image")); err == nil {
		t.Error("expected error for non-image payload")
	}
}

func TestValidateRejectsTruncated(t *testing.T) {
	data := encodePNG(t)
	// Keep the magic bytes but drop the rest of the header.
	if _, err := Validate(data[:10]); err == nil {
		t.Error("expected error for truncated payload")
	}
}
