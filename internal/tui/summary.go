package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"squish/internal/batch"
)

type summaryRow struct {
	label string
	value string
	style lipgloss.Style
}

// RenderSummary renders the end-of-run table. The failed row only turns
// red when something failed, over-budget fallbacks get their own row,
// and a cancelled run says so under the table.
func RenderSummary(summary batch.Summary) string {
	failedStyle := valueStyle
	if summary.Failed > 0 {
		failedStyle = failValueStyle
	}

	rows := []summaryRow{
		{"Files attempted", fmt.Sprintf("%d", summary.Succeeded+summary.Failed), valueStyle},
		{"Succeeded", fmt.Sprintf("%d", summary.Succeeded), okValueStyle},
		{"Failed", fmt.Sprintf("%d", summary.Failed), failedStyle},
	}
	if summary.BestEffort > 0 {
		rows = append(rows, summaryRow{"Over budget (best effort)", fmt.Sprintf("%d", summary.BestEffort), warnValueStyle})
	}
	rows = append(rows, summaryRow{"Space saved", fmt.Sprintf("%.1fKB", float64(summary.BytesIn-summary.BytesOut)/1024), valueStyle})

	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.label) > labelWidth {
			labelWidth = len(row.label)
		}
		if len(row.value) > valueWidth {
			valueWidth = len(row.value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}
	for _, row := range rows {
		label := padRight(row.label, labelWidth)
		value := padRight(row.value, valueWidth)
		lines = append(lines, fmt.Sprintf("%s | %s", labelStyle.Render(label), row.style.Render(value)))
	}
	lines = append(lines, hline)

	if summary.Cancelled {
		lines = append(lines, warnStyle.Render("Cancelled; remaining files were not processed."))
	}

	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	okValueStyle   = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	failValueStyle = lipgloss.NewStyle().Foreground(ColorFail).Bold(true)
	warnValueStyle = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
)
