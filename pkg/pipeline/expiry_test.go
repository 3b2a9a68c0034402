package pipeline

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeExpiry(t *testing.T) {
	tests := []struct {
		name  string
		input string
		empty bool
	}{
		{"empty input", "", true},
		{"garbage", "not-a-date", true},
		{"date only", "2026-12-31", true},
		{"local datetime", "2026-12-31T18:00", false},
		{"already zoned", "2026-12-31T18:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeExpiry(tt.input)
			if tt.empty {
				if got != "" {
					t.Errorf("NormalizeExpiry(%q) = %q, want empty", tt.input, got)
				}
				return
			}
			if got == "" {
				t.Fatalf("NormalizeExpiry(%q) returned empty", tt.input)
			}
			if _, err := time.Parse(time.RFC3339, got); err != nil {
				t.Errorf("NormalizeExpiry(%q) = %q, not RFC3339: %v", tt.input, got, err)
			}
			if !strings.HasSuffix(got, "Z") {
				t.Errorf("NormalizeExpiry(%q) = %q, want UTC", tt.input, got)
			}
		})
	}
}

func TestNormalizeExpiryConvertsLocalToUTC(t *testing.T) {
	got := NormalizeExpiry("2026-06-15T12:30")
	want := time.Date(2026, 6, 15, 12, 30, 0, 0, time.Local).UTC().Format(time.RFC3339)
	if got != want {
		t.Errorf("NormalizeExpiry = %q, want %q", got, want)
	}
}
