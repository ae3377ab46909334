package config

import (
	"testing"
	"time"
)

func TestParseCutoff(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"empty means no cutoff", "", time.Time{}, false},
		{"rfc3339", "2024-05-01T06:00:00Z", time.Date(2024, time.May, 1, 6, 0, 0, 0, time.UTC), false},
		{"plain date", "2024-05-01", time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "last tuesday", time.Time{}, true},
		{"wrong order", "01-05-2024", time.Time{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCutoff(tc.value)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tc.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
