package utils

import (
	"testing"
	"time"
)

func TestParseObservationTime(t *testing.T) {
	fixed := time.Date(2024, 3, 20, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	now := func() time.Time { return fixed }

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"empty uses now in UTC", "", fixed.UTC(), false},
		{"blank uses now in UTC", "   ", fixed.UTC(), false},
		{"zulu", "2024-03-20T12:00:00Z", time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), false},
		{"offset", "2024-03-20T05:00:00-07:00", time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), false},
		{"fractional seconds", "2024-03-20T12:00:00.5Z", time.Date(2024, 3, 20, 12, 0, 0, 500000000, time.UTC), false},
		{"missing offset", "2024-03-20T12:00:00", time.Time{}, true},
		{"garbage", "noon", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseObservationTime(tt.in, now)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	got, _ := ParseObservationTime("", now)
	if got.Location() != time.UTC {
		t.Errorf("Expected UTC location for default time, got %v", got.Location())
	}
}

func TestFormatUTC(t *testing.T) {
	ts := time.Date(2024, 3, 20, 5, 0, 0, 0, time.FixedZone("PDT", -7*3600))
	expected := "2024-03-20T12:00:00Z"
	if got := FormatUTC(ts); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}
