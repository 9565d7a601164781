package exifdate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCaptureDateWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	if err := os.WriteFile(path, []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CaptureDate(path); !errors.Is(err, ErrNoDate) {
		t.Fatalf("expected ErrNoDate, got %v", err)
	}
}

func TestCaptureDateMissingFile(t *testing.T) {
	_, err := CaptureDate(filepath.Join(t.TempDir(), "absent.jpg"))
	if err == nil || errors.Is(err, ErrNoDate) {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"2023:05:01 10:11:12", true},
		{"2023:05:01 10:11:12\x00", true},
		{"0000:00:00 00:00:00", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		ts, ok := parse(tt.raw)
		if ok != tt.want {
			t.Fatalf("parse(%q) ok=%v, want %v", tt.raw, ok, tt.want)
		}
		if ok && ts.Format("20060102") != "20230501" {
			t.Fatalf("parse(%q) = %v", tt.raw, ts)
		}
	}
}
