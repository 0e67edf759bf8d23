package styles

import (
	"railchat/internal/models"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a complete color scheme for the application
type Theme struct {
	// Core colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	// Text colors
	TextPrimary lipgloss.Color
	TextMuted   lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border lipgloss.Color
}

// DarkTheme is the dark mode color scheme
var DarkTheme = Theme{
	Primary:   lipgloss.Color("#818CF8"), // Indigo 400
	Secondary: lipgloss.Color("#22D3EE"), // Cyan 400

	TextPrimary: lipgloss.Color("#F1F5F9"), // Slate 100
	TextMuted:   lipgloss.Color("#64748B"), // Slate 500

	Success: lipgloss.Color("#34D399"), // Emerald 400
	Warning: lipgloss.Color("#FBBF24"), // Amber 400
	Error:   lipgloss.Color("#FB7185"), // Rose 400

	Border: lipgloss.Color("#27272A"), // Zinc 800
}

// LightTheme is the light mode color scheme
var LightTheme = Theme{
	Primary:   lipgloss.Color("#4F46E5"), // Indigo 600
	Secondary: lipgloss.Color("#0891B2"), // Cyan 600

	TextPrimary: lipgloss.Color("#18181B"), // Zinc 900
	TextMuted:   lipgloss.Color("#A1A1AA"), // Zinc 400

	Success: lipgloss.Color("#10B981"), // Emerald 500
	Warning: lipgloss.Color("#F59E0B"), // Amber 500
	Error:   lipgloss.Color("#EF4444"), // Red 500

	Border: lipgloss.Color("#E4E4E7"), // Zinc 200
}

// CurrentTheme holds the active theme (set at runtime based on terminal)
var CurrentTheme = DarkTheme

// HealthColor maps a probe outcome to its indicator colour
func HealthColor(state models.HealthState) lipgloss.Color {
	switch state {
	case models.HealthHealthy:
		return CurrentTheme.Success
	case models.HealthDegraded:
		return CurrentTheme.Warning
	case models.HealthUnreachable:
		return CurrentTheme.Error
	default:
		return CurrentTheme.TextMuted
	}
}

// HealthDot renders the coloured status indicator
func HealthDot(state models.HealthState) string {
	return lipgloss.NewStyle().Foreground(HealthColor(state)).Render("●")
}

// InitTheme sets the current theme based on terminal background
func InitTheme() {
	if lipgloss.HasDarkBackground() {
		CurrentTheme = DarkTheme
	} else {
		CurrentTheme = LightTheme
	}
}
