// Package style provides lipgloss styles for terminal UI rendering
package style

import (
	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Title is a style for title text
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF69B4")).
		MarginBottom(1)

	// Section is a style for section headers
	Section = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5F9EA0")).
		Bold(true)

	// File is a style for file names
	File = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	// Dir is a style for directory names
	Dir = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#DDA0DD")).
		Bold(true)

	// ID is a style for climate identifiers
	ID = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ADD8"))

	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262"))

	// Label is a style for observation field names
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#B794F6"))

	// Error is a style for error messages
	Error = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF0000"))

	// Success is a style for success messages
	Success = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF00"))

	// Warning is a style for empty results
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFE66D"))
)

// Elevation colours a station marker the same way the map does.
func Elevation(class catalog.ElevationClass) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(class.Color()))
}

// Marker renders the coloured dot used in station lists.
func Marker(class catalog.ElevationClass) string {
	return Elevation(class).Render("●")
}
