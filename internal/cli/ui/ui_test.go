package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	out := Format(Report{
		Level:       LevelError,
		Context:     "type not found",
		Problem:     "Ordr",
		Detail:      "No resource type named 'Ordr'.",
		Suggestions: []string{"Order"},
		Hints:       []string{"List types: docbridge catalog"},
		NoColor:     true,
	})

	assert.Contains(t, out, "x TYPE NOT FOUND: Ordr")
	assert.Contains(t, out, "   No resource type named 'Ordr'.")
	assert.Contains(t, out, "Did you mean: Order?")
	assert.Contains(t, out, "→ List types: docbridge catalog")
}

func TestFormatLevels(t *testing.T) {
	assert.True(t, strings.HasPrefix(Warning("careful", true), "! careful"))
	assert.True(t, strings.HasPrefix(Format(Report{Level: LevelInfo, Problem: "fyi", NoColor: true}), "i fyi"))
	assert.Equal(t, "✓ saved", Success("saved", true))
}

func TestNotFoundHelpers(t *testing.T) {
	out := TypeNotFound("Ordre", []string{"Order", "Customer", "Invoice"}, true)
	assert.Contains(t, out, "TYPE NOT FOUND: Ordre")
	assert.Contains(t, out, "Did you mean: Order?")

	out = SetNotFound("Zzzzzzzz", []string{"Orders"}, true)
	assert.Contains(t, out, "SET NOT FOUND")
	assert.NotContains(t, out, "Did you mean")

	out = ConversionFailed(errors.New("boom"), true)
	assert.Contains(t, out, "CONVERSION FAILED: boom")

	out = ConfigError(errors.New("bad driver"), true)
	assert.Contains(t, out, "CONFIGURATION ERROR: bad driver")
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"Order", "Orders", "Customer", "OrderLine"}

	assert.Equal(t, []string{"Order", "Orders"}, FindSimilar("order", candidates, nil))
	assert.Equal(t, []string{"Order"}, FindSimilar("ordr", candidates, &FuzzyOptions{MaxDistance: 1}))
	assert.Empty(t, FindSimilar("xyz", candidates, nil))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 3, EditDistance("kitten", "sitting"))
	assert.Equal(t, 3, EditDistance("saturday", "sunday"))
	assert.Equal(t, 0, EditDistance("", ""))
	assert.Equal(t, 4, EditDistance("", "abcd"))
	assert.Equal(t, 1, EditDistance("café", "cafe"))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "Property", "Kind", "Type")
	table.AddRow("id", "primitive", "string!")
	table.AddRow("address", "complex")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "Property  Kind       Type", lines[0])
	assert.Equal(t, "────────  ─────────  ───────", lines[1])
	assert.Equal(t, "id        primitive  string!", lines[2])
	assert.Equal(t, "address   complex", lines[3])
	assert.Equal(t, 2, table.Len())
}

func TestTableNoHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, true).Render()
	assert.Empty(t, buf.String())
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Types", true)
	assert.Equal(t, "Types\n─────\n", buf.String())
}
