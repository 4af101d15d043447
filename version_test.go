package main

import "testing"

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		version, commit, want string
	}{
		{"v1.2.0", "abcdef1234567", "v1.2.0"},
		{"dev", "abcdef1234567", "dev-abcdef1"},
		{"dev", "abc", "dev-abc"},
		{"dev", "", "dev"},
		{"", "", "dev"},
		{" ", " 1234567890 ", "dev-1234567"},
	}
	for _, tt := range tests {
		if got := formatVersion(tt.version, tt.commit); got != tt.want {
			t.Errorf("formatVersion(%q, %q) = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}
