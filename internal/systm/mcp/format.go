package mcp

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// formatDate renders an upstream ISO date as e.g. "January 15, 2024".
// Returns nil for absent or unparseable input.
func formatDate(isoDate *string) *string {
	if isoDate == nil || *isoDate == "" {
		return nil
	}
	raw := strings.Replace(*isoDate, "Z", "+00:00", 1)
	for _, layout := range dateLayouts {
		layoutInput := raw
		if layout == time.RFC3339 {
			layoutInput = *isoDate
		}
		if parsed, err := time.Parse(layout, layoutInput); err == nil {
			formatted := parsed.Format("January 02, 2006")
			return &formatted
		}
	}
	return nil
}

// formatDuration renders seconds as "1h 5m" or "45m".
func formatDuration(seconds *int) *string {
	if seconds == nil {
		return nil
	}
	hours := *seconds / 3600
	minutes := (*seconds % 3600) / 60
	var formatted string
	if hours > 0 {
		formatted = fmt.Sprintf("%dh %dm", hours, minutes)
	} else {
		formatted = fmt.Sprintf("%dm", minutes)
	}
	return &formatted
}

// formatDistance renders kilometers with two decimals and a unit suffix.
func formatDistance(km *float64) *string {
	if km == nil {
		return nil
	}
	formatted := fmt.Sprintf("%.2f km", *km)
	return &formatted
}
