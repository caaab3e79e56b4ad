package handlers

import (
	"testing"
	"time"
)

func TestParseFlexibleTime(t *testing.T) {
	tests := []struct {
		in           string
		want         time.Time
		wantDateOnly bool
		wantErr      bool
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true, false},
		{"2024-01-15T10:00:00Z", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), false, false},
		{"2024-01-15T10:00:00-05:00", time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC), false, false},
		{"15/01/2024", time.Time{}, false, true},
		{"", time.Time{}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, dateOnly, err := parseFlexibleTime(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Equal(tt.want) || got.Location() != time.UTC {
				t.Errorf("got %v, want %v in UTC", got, tt.want)
			}
			if dateOnly != tt.wantDateOnly {
				t.Errorf("dateOnly = %v, want %v", dateOnly, tt.wantDateOnly)
			}
		})
	}
}

func TestParseDateRange(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		start, end, err := parseDateRange("", "")
		if err != nil || start != nil || end != nil {
			t.Errorf("expected nils, got %v %v %v", start, end, err)
		}
	})

	t.Run("date_only_end_covers_day", func(t *testing.T) {
		_, end, err := parseDateRange("", "2024-01-31")
		if err != nil {
			t.Fatal(err)
		}
		if want := time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC); !end.Equal(want) {
			t.Errorf("got %v, want %v", end, want)
		}
	})

	t.Run("timestamp_end_is_exact", func(t *testing.T) {
		_, end, err := parseDateRange("", "2024-01-31T12:00:00Z")
		if err != nil {
			t.Fatal(err)
		}
		if want := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC); !end.Equal(want) {
			t.Errorf("got %v, want %v", end, want)
		}
	})

	t.Run("same_day_range", func(t *testing.T) {
		if _, _, err := parseDateRange("2024-01-31", "2024-01-31"); err != nil {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("inverted", func(t *testing.T) {
		if _, _, err := parseDateRange("2024-02-01", "2024-01-01"); err == nil {
			t.Error("expected error for inverted range")
		}
	})
}
