package mp3

import "testing"

func TestDecodeMissingFile(t *testing.T) {
	if _, err := Decode("/nonexistent/path/does-not-exist.mp3"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecodeBytesRejectsGarbage(t *testing.T) {
	if _, err := DecodeBytes([]byte("not an mp3 stream")); err == nil {
		t.Fatal("expected error for invalid mp3 data")
	}
}
