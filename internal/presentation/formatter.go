package presentation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/vellum/internal/capability"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// ErrUnknownFormat is returned for a format a command does not support.
var ErrUnknownFormat = errors.New("unknown output format")

const (
	markDeclared = "✓"
	markAbsent   = "·"
	columnGap    = "  "
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	output *termenv.Output
}

// NewFormatter creates a new formatter. Table marks are colored only when
// writer is a terminal that supports it.
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
		output: termenv.NewOutput(writer),
	}
}

// FormatDefinitions writes definitions as json or yaml.
func (f *Formatter) FormatDefinitions(defs []DefinitionDTO, format string) error {
	switch format {
	case FormatJSON:
		return f.encodeJSON(defs)
	case FormatYAML:
		encoder := yaml.NewEncoder(f.writer)
		encoder.SetIndent(2)
		if err := encoder.Encode(defs); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("%w: %q (want json or yaml)", ErrUnknownFormat, format)
}

// FormatCapabilities writes manager capability sets as json or as a table
// with one row per capability in the vocabulary.
func (f *Formatter) FormatCapabilities(sets []CapabilityDTO, format string) error {
	switch format {
	case FormatJSON:
		return f.encodeJSON(sets)
	case FormatTable:
		return f.capabilityTable(sets)
	}
	return fmt.Errorf("%w: %q (want table or json)", ErrUnknownFormat, format)
}

func (f *Formatter) encodeJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *Formatter) capabilityTable(sets []CapabilityDTO) error {
	header := []string{"CAPABILITY"}
	for _, s := range sets {
		header = append(header, strings.ToUpper(s.Manager))
	}
	rows := [][]string{header}
	for _, flag := range capability.All() {
		row := []string{flag.String()}
		for _, s := range sets {
			mark := markAbsent
			if slices.Contains(s.Capabilities, flag.String()) {
				mark = markDeclared
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			b.WriteString(f.styleMark(cell))
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
				b.WriteString(columnGap)
			}
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(f.writer, b.String())
	return err
}

func (f *Formatter) styleMark(cell string) string {
	switch cell {
	case markDeclared:
		return f.output.String(cell).Foreground(f.output.Color("2")).String()
	case markAbsent:
		return f.output.String(cell).Faint().String()
	}
	return cell
}
