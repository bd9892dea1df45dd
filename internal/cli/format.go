// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatEUR formats a euro amount with a currency prefix.
func FormatEUR(amount float64) string {
	if amount >= 1000 {
		return "€" + FormatNumber(int64(amount+0.5))
	}
	return fmt.Sprintf("€%.2f", amount)
}

// FormatDuration formats seconds into a human-readable duration.
// e.g., 3725 -> "1h 2m", 125 -> "2m", 45 -> "45s"
func FormatDuration(secs int64) string {
	if secs <= 0 {
		return "0s"
	}

	hours := secs / 3600
	mins := (secs % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatMinutes formats a fractional minute count, e.g. 3.52 -> "3.5 min".
func FormatMinutes(mins float64) string {
	return fmt.Sprintf("%.1f min", mins)
}

// FormatSeconds formats a fractional second count, e.g. 12.34 -> "12.3s".
func FormatSeconds(secs float64) string {
	return fmt.Sprintf("%.1fs", secs)
}

// FormatPercent formats a 0-100 value as a percentage string.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDelta formats a euro delta with an explicit sign.
func FormatDelta(delta float64) string {
	if delta >= 0 {
		return "+" + FormatEUR(delta)
	}
	return "-" + FormatEUR(-delta)
}
