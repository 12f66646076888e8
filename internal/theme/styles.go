package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Heading styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	VersionStyle = lipgloss.NewStyle().
			Foreground(ColorVersion)
)

// Detail view styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Width(20)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// State styles
var (
	ClosedStyle = lipgloss.NewStyle().
			Foreground(ColorClosed)

	FinalizedStyle = lipgloss.NewStyle().
			Foreground(ColorFinalized)

	OpenStyle = lipgloss.NewStyle().
			Foreground(ColorOpen)

	RunningStyle = lipgloss.NewStyle().
			Foreground(ColorRunning).
			Bold(true)

	StoppedStyle = lipgloss.NewStyle().
			Foreground(ColorStopped)
)

// Budget styles
var (
	OverBudgetStyle = lipgloss.NewStyle().
			Foreground(ColorOverBudget).
			Bold(true)

	UnderBudgetStyle = lipgloss.NewStyle().
				Foreground(ColorUnderBudget)
)

// Error style
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)

// ActivityState renders finalized or open
func ActivityState(finalized bool) string {
	if finalized {
		return FinalizedStyle.Render("finalized")
	}
	return OpenStyle.Render("open")
}

// TaskState renders closed or open
func TaskState(closed bool) string {
	if closed {
		return ClosedStyle.Render("closed")
	}
	return OpenStyle.Render("open")
}

// EntryState renders running or stopped
func EntryState(running bool) string {
	if running {
		return RunningStyle.Render("running")
	}
	return StoppedStyle.Render("stopped")
}

// RemainingHours renders the remaining budget, red once it goes negative
func RemainingHours(hours float64) string {
	text := fmt.Sprintf("%.2f", hours)
	if hours < 0 {
		return OverBudgetStyle.Render(text)
	}
	return UnderBudgetStyle.Render(text)
}

// Detail renders one label/value line of a detail view
func Detail(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
