package cli

import "testing"

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "€0.00"},
		{1.239, "€1.24"},
		{999.99, "€999.99"},
		{1000, "€1,000"},
		{123456.7, "€123,457"},
	}
	for _, tt := range tests {
		if got := FormatEUR(tt.in); got != tt.want {
			t.Errorf("FormatEUR(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0s"},
		{-5, "0s"},
		{45, "45s"},
		{125, "2m"},
		{3725, "1h 2m"},
		{7200, "2h 0m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.secs); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2.5, "+€2.50"},
		{0, "+€0.00"},
		{-3.2, "-€3.20"},
	}
	for _, tt := range tests {
		if got := FormatDelta(tt.in); got != tt.want {
			t.Errorf("FormatDelta(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSmallFormats(t *testing.T) {
	if got := FormatMinutes(3.52); got != "3.5 min" {
		t.Errorf("FormatMinutes = %q", got)
	}
	if got := FormatSeconds(12.34); got != "12.3s" {
		t.Errorf("FormatSeconds = %q", got)
	}
	if got := FormatPercent(87.654); got != "87.7%" {
		t.Errorf("FormatPercent = %q", got)
	}
}
