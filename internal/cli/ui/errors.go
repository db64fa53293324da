package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level is the severity of a reported message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// Report describes a user-facing diagnostic
type Report struct {
	Level       Level
	Context     string
	Problem     string
	Detail      string
	Suggestions []string
	Hints       []string
	NoColor     bool
}

func (l Level) style() (*color.Color, string) {
	switch l {
	case LevelWarning:
		return color.New(color.FgYellow, color.Bold), "!"
	case LevelInfo:
		return color.New(color.FgCyan, color.Bold), "i"
	default:
		return color.New(color.FgRed, color.Bold), "x"
	}
}

// Format renders a report as
//
//	x TYPE NOT FOUND: Ordr
//	   No resource type named 'Ordr' in the catalog.
//
//	   Did you mean: Order?
//
//	   → List types: docbridge catalog
func Format(r Report) string {
	var b strings.Builder

	header, symbol := r.Level.style()
	plain := color.New()
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	if r.NoColor {
		for _, c := range []*color.Color{header, plain, yellow, cyan} {
			c.DisableColor()
		}
	}

	if r.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(r.Context), r.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, r.Problem)
	}

	if r.Detail != "" {
		plain.Fprintf(&b, "   %s\n", r.Detail)
	}

	if len(r.Suggestions) > 0 {
		b.WriteString("\n")
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(r.Suggestions, ", "))
	}

	if len(r.Hints) > 0 {
		b.WriteString("\n")
		for _, h := range r.Hints {
			cyan.Fprintf(&b, "   → %s\n", h)
		}
	}

	return b.String()
}

// Write writes a formatted report to w
func Write(w io.Writer, r Report) {
	fmt.Fprint(w, Format(r))
}

// Success formats a one-line success message
func Success(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// TypeNotFound reports an unknown resource type, suggesting close names
func TypeNotFound(name string, known []string, noColor bool) string {
	return Format(Report{
		Level:       LevelError,
		Context:     "type not found",
		Problem:     name,
		Detail:      fmt.Sprintf("No resource type named '%s' in the catalog.", name),
		Suggestions: FindSimilar(name, known, nil),
		Hints:       []string{"List types: docbridge catalog"},
		NoColor:     noColor,
	})
}

// SetNotFound reports an unknown resource set, suggesting close names
func SetNotFound(name string, known []string, noColor bool) string {
	return Format(Report{
		Level:       LevelError,
		Context:     "set not found",
		Problem:     name,
		Detail:      fmt.Sprintf("No resource set named '%s' in the catalog.", name),
		Suggestions: FindSimilar(name, known, nil),
		Hints:       []string{"List sets: docbridge catalog --sets"},
		NoColor:     noColor,
	})
}

// ConversionFailed reports a decode or encode failure
func ConversionFailed(err error, noColor bool) string {
	return Format(Report{
		Level:   LevelError,
		Context: "conversion failed",
		Problem: err.Error(),
		Hints: []string{
			"Skip bad properties: --coercion-policy skip",
			"Inspect the type: docbridge catalog <Type>",
		},
		NoColor: noColor,
	})
}

// ConfigError reports an invalid configuration
func ConfigError(err error, noColor bool) string {
	return Format(Report{
		Level:   LevelError,
		Context: "configuration error",
		Problem: err.Error(),
		Hints:   []string{"View config: cat docbridge.yaml"},
		NoColor: noColor,
	})
}

// Warning formats a warning message
func Warning(message string, noColor bool) string {
	return Format(Report{Level: LevelWarning, Problem: message, NoColor: noColor})
}
