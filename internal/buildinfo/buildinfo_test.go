package buildinfo

import "testing"

func TestShort(t *testing.T) {
	saved := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = saved[0], saved[1], saved[2] })

	tests := []struct {
		version, commit, want string
	}{
		{"dev", "unknown", "dev"},
		{"dev", "abc123", "abc123"},
		{"v1.2.0", "abc123", "v1.2.0"},
		{"", "", "dev"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := Short(); got != tt.want {
			t.Fatalf("Short() with %q/%q = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}
