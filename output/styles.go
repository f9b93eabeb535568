// Package output provides styling and layout helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles styles report text for the terminal behind a writer. Writers that
// are not terminals get the text unchanged.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

// Heading styles a report or section title (bold + underline).
func (s *Styles) Heading(text string) string {
	return s.output.String(text).Bold().Underline().String()
}

// Header styles the column header line of a table (bold).
func (s *Styles) Header(text string) string {
	return s.output.String(text).Bold().String()
}

// Total styles a subtotal or total line (bold).
func (s *Styles) Total(text string) string {
	return s.output.String(text).Bold().String()
}

// Rule styles table rules and tree branches (faint).
func (s *Styles) Rule(text string) string {
	return s.output.String(text).Faint().String()
}

// Slow highlights a measurement that took noticeably long (yellow + bold).
func (s *Styles) Slow(text string) string {
	return s.output.String(text).Foreground(s.output.Color("3")).Bold().String()
}

// Output returns the underlying termenv Output for advanced usage.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
