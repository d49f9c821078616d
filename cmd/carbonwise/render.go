package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"carbonwise/internal"
	"carbonwise/internal/analysis"
	"carbonwise/internal/dashboard"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16a249"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func renderSummary(s analysis.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("Total: %.2f kg CO₂", s.TotalEmissions)))
	fmt.Fprintf(&b, "Eco score %.1f  vs target %+.1f kg  vs average %+.1f kg\n", s.EcoScore, s.VsTarget, s.VsAverage)
	for _, c := range s.Breakdown {
		fmt.Fprintf(&b, "  %-10s %8.2f kg %5.1f%%\n", c.Category, c.Emissions, c.Percentage)
	}
	for _, sg := range s.Suggestions {
		fmt.Fprintf(&b, "%s %s\n", suggestionStyle(sg.Type).Render("• "+sg.Title), mutedStyle.Render(sg.Recommendation))
	}
	fmt.Fprintf(&b, "%s\n", mutedStyle.Render("analysed at "+s.Timestamp))
	return b.String()
}

func renderView(v dashboard.View) string {
	if v.Empty {
		return fmt.Sprintf("%s\n%s\n", v.Prompt, mutedStyle.Render("see "+v.PromptLink))
	}

	var b strings.Builder
	status := goodStyle.Render(fmt.Sprintf("%.1f kg under target", -v.Delta))
	if !v.UnderTarget {
		status = warnStyle.Render(fmt.Sprintf("%.1f kg over target", v.Delta))
	}
	fmt.Fprintf(&b, "%s  %s\n", headerStyle.Render(fmt.Sprintf("%.1f kg CO₂ (%s)", v.Total, v.Period)), status)
	fmt.Fprintf(&b, "%s %.0f%% of %.0f kg\n", progressBar(v.DisplayProgress, 30), v.TargetProgress, v.Target)

	var rows []string
	for _, c := range v.Categories {
		arrow := "↓"
		style := goodStyle
		if c.Trend == internal.TrendUp {
			arrow, style = "↑", warnStyle
		}
		rows = append(rows, fmt.Sprintf("%-9s %6.1f kg %3.0f%% %s", c.Name, c.Value, c.Percentage, style.Render(fmt.Sprintf("%s%.0f%%", arrow, c.TrendValue))))
	}
	fmt.Fprintln(&b, boxStyle.Render(strings.Join(rows, "\n")))

	for _, g := range v.Goals {
		fmt.Fprintf(&b, "%-24s %s %g/%g %s\n", g.Title, progressBar(g.Percent(), 10), g.Current, g.Target, g.Unit)
	}
	for _, sg := range v.Suggestions {
		fmt.Fprintf(&b, "%s\n", suggestionStyle(sg.Type).Render("• "+sg.Title))
	}
	fmt.Fprintf(&b, "%s\n", mutedStyle.Render(fmt.Sprintf("snapshot %s: %d files, %d activities", v.SnapshotTimestamp, v.FileCount, v.ActivityCount)))
	return b.String()
}

func suggestionStyle(kind internal.SuggestionKind) lipgloss.Style {
	switch kind {
	case internal.SuggestionAlert:
		return warnStyle
	case internal.SuggestionAchievement:
		return goodStyle
	default:
		return headerStyle
	}
}

func progressBar(pct float64, width int) string {
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	filled := int(pct / 100 * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
