package stats

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/worklane/worklane/internal/models"
)

// FormatText renders a snapshot as a human-readable report for the CLI.
func FormatText(s *models.StatsSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Productivity Report - %s\n", s.Period.Type)
	fmt.Fprintf(&b, "Period: %s to %s\n",
		s.Period.Start.Format("2006-01-02 15:04"),
		s.Period.End.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total: %.2fh  Productive: %.2fh  Break: %.2fh  Efficiency: %d%%\n\n",
		s.TotalHours, s.ProductiveHours, s.BreakHours, s.Efficiency)

	if s.EntryCount == 0 {
		b.WriteString("No completed entries for this period.\n")
		return b.String()
	}

	b.WriteString(formatBreakdown("By task", s.TaskBreakdown))
	b.WriteString(formatBreakdown("By category", s.CategoryBreakdown))

	b.WriteString("Daily trend:\n")
	for _, point := range s.WeeklyTrend {
		fmt.Fprintf(&b, "  %s %s %8.2fh\n", point.Label, point.Date, point.Hours)
	}

	if s.Stale {
		b.WriteString("\n(stale: served from cache after a failed refresh)\n")
	}
	return b.String()
}

func formatBreakdown(title string, slices []models.BreakdownSlice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", title)
	fmt.Fprintf(&b, "  %-30s %10s %9s\n", "Name", "Hours", "Percent")
	for _, slice := range slices {
		fmt.Fprintf(&b, "  %-30s %10.2f %8.1f%%\n", truncate(slice.Label, 30), slice.Hours, slice.Percentage)
	}
	b.WriteString("\n")
	return b.String()
}

// FormatJSON renders a snapshot as indented JSON.
func FormatJSON(s *models.StatsSnapshot) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
