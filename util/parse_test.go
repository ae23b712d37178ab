package util

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"100MB", 100 * 1024 * 1024},
		{"512kb", 512 * 1024},
		{"2GB", 2 * 1024 * 1024 * 1024},
		{"4096", 4096},
		{"10B", 10},
		{" 1 MB ", 1024 * 1024},
	}
	for _, tt := range tests {
		if got := ParseSize(tt.in, -1); got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseSize_Default(t *testing.T) {
	for _, in := range []string{"", "lots", "-5MB"} {
		if got := ParseSize(in, 42); got != 42 {
			t.Errorf("ParseSize(%q) = %d, want default", in, got)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("abcdef123", 4); got != "abcd***" {
		t.Errorf("MaskSecret = %q", got)
	}
	if got := MaskSecret("ab", 4); got != "***" {
		t.Errorf("MaskSecret short = %q", got)
	}
	if got := MaskSecret("", 4); got != "" {
		t.Errorf("MaskSecret empty = %q", got)
	}
}

func TestTailAndTruncate(t *testing.T) {
	if got := Tail("  line one\nERROR: private video \n", 21); got != "...ERROR: private video" {
		t.Errorf("Tail = %q", got)
	}
	if got := Tail("short", 100); got != "short" {
		t.Errorf("Tail short = %q", got)
	}
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abc", 3); got != "abc" {
		t.Errorf("Truncate exact = %q", got)
	}
}
