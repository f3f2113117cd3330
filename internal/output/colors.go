package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Progress  *color.Color
	Failure   *color.Color
	Success   *color.Color
	Error     *color.Color
	Label     *color.Color
	Value     *color.Color
	Highlight *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Progress:  color.New(color.FgGreen),
		Failure:   color.New(color.FgRed, color.Bold),
		Success:   color.New(color.FgGreen, color.Bold),
		Error:     color.New(color.FgRed, color.Bold),
		Label:     color.New(color.FgYellow),
		Value:     color.New(color.FgCyan),
		Highlight: color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	scheme.Progress.DisableColor()
	scheme.Failure.DisableColor()
	scheme.Success.DisableColor()
	scheme.Error.DisableColor()
	scheme.Label.DisableColor()
	scheme.Value.DisableColor()
	scheme.Highlight.DisableColor()

	return scheme
}

// EnableColors forces colors on regardless of the terminal
func (s *ColorScheme) EnableColors() {
	s.Progress.EnableColor()
	s.Failure.EnableColor()
	s.Success.EnableColor()
	s.Error.EnableColor()
	s.Label.EnableColor()
	s.Value.EnableColor()
	s.Highlight.EnableColor()
}
