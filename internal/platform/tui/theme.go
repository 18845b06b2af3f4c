package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme contains the menu and setup screen styles.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	ItemNormal  lipgloss.Style
	ItemActive  lipgloss.Style
	Description lipgloss.Style
	Value       lipgloss.Style
	Controls    lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true), // Hot pink
		Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true), // Bright yellow
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")), // Bright cyan
		Controls:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// NeonTheme returns a neon-style theme.
func NeonTheme() Theme {
	theme := DefaultTheme()
	theme.Title = lipgloss.NewStyle().Foreground(lipgloss.Color("199")).Bold(true)
	theme.ItemActive = lipgloss.NewStyle().Foreground(lipgloss.Color("118")).Bold(true)
	theme.Value = lipgloss.NewStyle().Foreground(lipgloss.Color("87"))
	return theme
}

// MonochromeTheme returns a grayscale theme.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.Title = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.ItemActive = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Underline(true)
	theme.Value = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	return theme
}

// ThemeNames lists the accepted theme names.
var ThemeNames = []string{"default", "neon", "mono"}

// ThemeByName returns the named theme.
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "", "default":
		return DefaultTheme(), nil
	case "neon":
		return NeonTheme(), nil
	case "mono":
		return MonochromeTheme(), nil
	}
	return Theme{}, fmt.Errorf("tui: unknown theme %q", name)
}

// Global theme variable (can be changed at runtime)
var theme = DefaultTheme()

// SetTheme sets the global theme.
func SetTheme(t Theme) {
	theme = t
}

// CurrentTheme returns the current global theme.
func CurrentTheme() Theme {
	return theme
}
