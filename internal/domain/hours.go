package domain

import "math"

// SecondsToMinutes floors a number of seconds to whole minutes.
func SecondsToMinutes(seconds int64) int64 {
	if seconds <= 0 {
		return 0
	}
	return seconds / 60
}

// MinutesToHours converts whole minutes into fractional hours as whole
// hours plus the leftover minutes over sixty.
func MinutesToHours(totalMinutes int64) float64 {
	hours := totalMinutes / 60
	leftover := totalMinutes % 60
	return float64(hours) + float64(leftover)/60
}

// RoundHours rounds to two decimals for display.
func RoundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}
