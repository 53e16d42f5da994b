package services

import (
	"fmt"
	"strings"
)

// FormatDistance renders meters the way the field team reads them:
// "850 m" under one kilometer, "12,4 km" above.
func FormatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", meters)
	}
	km := fmt.Sprintf("%.1f", float64(meters)/1000)
	km = strings.TrimSuffix(km, ".0")
	return strings.Replace(km, ".", ",", 1) + " km"
}

// FormatDuration renders seconds rounded up to whole minutes.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0 min"
	}
	mins := (seconds + 59) / 60
	if mins < 60 {
		return fmt.Sprintf("%d min", mins)
	}
	return fmt.Sprintf("%d h %02d min", mins/60, mins%60)
}
