package format

import (
	"math"
	"testing"
	"time"
)

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{250 * time.Millisecond, "250ms"},
		{90 * time.Second, "1m30s"},
		{2*time.Second + 400*time.Millisecond, "2s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.in); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10s"},
		{0.5, "0.5s"},
		{2.25, "2.25s"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.in); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatFixed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{12.346, "12.35"},
		{100, "100.00"},
		{math.NaN(), "-"},
	}
	for _, tt := range tests {
		if got := FormatFixed(tt.in); got != tt.want {
			t.Errorf("FormatFixed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FormatPercent(7.5); got != "7.50%" {
		t.Errorf("FormatPercent(7.5) = %q", got)
	}
	if got := FormatPercent(math.NaN()); got != "-" {
		t.Errorf("FormatPercent(NaN) = %q", got)
	}
}
