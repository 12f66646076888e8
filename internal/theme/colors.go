package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - subtitles
)

// Record state colors
const (
	ColorClosed    Color = "8" // Gray - closed task
	ColorFinalized Color = "3" // Yellow - finalized activity
	ColorOpen      Color = "4" // Blue - open task or activity
	ColorRunning   Color = "2" // Green - running timer
	ColorStopped   Color = "8" // Gray - stopped timer
)

// Budget colors
const (
	ColorOverBudget  Color = "1" // Red - remaining hours below zero
	ColorUnderBudget Color = "2" // Green
)

// UI semantic colors
const (
	ColorError     Color = "196" // Bright red
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorSubtle    Color = "245" // Light gray - labels
	ColorVersion   Color = "240" // Dark gray
)
