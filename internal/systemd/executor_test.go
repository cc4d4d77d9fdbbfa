package systemd

import "testing"

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		stderr string
		want   bool
	}{
		{"Unit raven-brain.service not found.", true},
		{"Unit raven-brain.service could not be found.", true},
		{"Unit raven-brain.service not loaded.", true},
		{"Failed to start raven-brain.service: Connection refused", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isNotFound(tt.stderr); got != tt.want {
			t.Errorf("isNotFound(%q) = %v, want %v", tt.stderr, got, tt.want)
		}
	}
}
