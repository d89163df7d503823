// Package output renders calculation outcomes and history listings.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/ivorydice/dicecalc/calc"
	"github.com/ivorydice/dicecalc/eval"
	"github.com/ivorydice/dicecalc/history"
)

// Format selects how results are written.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

var ErrInvalidFormat = errors.New("invalid output format")

// ParseFormat accepts a format name case-insensitively. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFormat, s)
	}
}

// Formatter writes outcomes and history records.
type Formatter struct {
	Format Format
	Color  bool
}

// NewFormatter creates a formatter. Color only affects the text format and
// is still subject to terminal detection.
func NewFormatter(format Format, useColor bool) *Formatter {
	return &Formatter{
		Format: format,
		Color:  useColor,
	}
}

type outcomeView struct {
	Expression string            `json:"expression" yaml:"expression"`
	Status     calc.Status       `json:"status" yaml:"status"`
	Value      string            `json:"value,omitempty" yaml:"value,omitempty"`
	Rolls      []eval.RollRecord `json:"rolls,omitempty" yaml:"rolls,omitempty"`
	Text       string            `json:"text" yaml:"text"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
}

func newOutcomeView(o calc.Outcome) outcomeView {
	v := outcomeView{
		Expression: o.Expression,
		Status:     o.Status,
		Value:      o.Value,
		Rolls:      o.Rolls,
		Text:       o.Text,
	}
	if o.Err != nil {
		v.Error = o.Err.Error()
	}

	return v
}

// WriteOutcome writes a single outcome.
func (f *Formatter) WriteOutcome(w io.Writer, o calc.Outcome) error {
	switch f.Format {
	case FormatText, "":
		return f.outcomeAsText(w, o)
	case FormatJSON:
		return writeJSON(w, newOutcomeView(o))
	case FormatYAML:
		return writeYAML(w, newOutcomeView(o))
	case FormatMarkdown:
		return outcomeAsMarkdown(w, o)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidFormat, f.Format)
	}
}

// WriteHistory writes a list of stored records.
func (f *Formatter) WriteHistory(w io.Writer, records []history.Record) error {
	switch f.Format {
	case FormatText, "":
		return f.historyAsTable(w, records)
	case FormatJSON:
		if records == nil {
			records = []history.Record{}
		}

		return writeJSON(w, records)
	case FormatYAML:
		return writeYAML(w, records)
	case FormatMarkdown:
		return historyAsMarkdown(w, records)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidFormat, f.Format)
	}
}

func (f *Formatter) colorize(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if !f.Color {
		c.DisableColor()
	}

	return c
}

func (f *Formatter) outcomeAsText(w io.Writer, o calc.Outcome) error {
	rollColor := f.colorize(color.FgCyan)
	resultColor := f.colorize(color.FgGreen)

	if !o.OK() {
		resultColor = f.colorize(color.FgRed)
	}

	lines := strings.Split(o.Text, "\n")
	for i, line := range lines {
		c := rollColor
		if i == len(lines)-1 {
			c = resultColor
		}

		if _, err := c.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

func outcomeAsMarkdown(w io.Writer, o calc.Outcome) error {
	var b strings.Builder

	if len(o.Rolls) > 0 {
		b.WriteString("| dice | rolls | total |\n")
		b.WriteString("|------|-------|-------|\n")

		for _, r := range o.Rolls {
			rolls := make([]string, len(r.Rolls))
			for i, v := range r.Rolls {
				rolls[i] = fmt.Sprint(v)
			}

			fmt.Fprintf(&b, "| %dd%d | %s | %d |\n", r.DiceCount, r.Sides, strings.Join(rolls, "+"), r.Total)
		}

		b.WriteString("\n")
	}

	if o.OK() {
		fmt.Fprintf(&b, "`%s` => **%s**\n", o.Expression, o.Value)
	} else {
		lines := strings.Split(o.Text, "\n")
		fmt.Fprintf(&b, "> %s\n", lines[len(lines)-1])
	}

	_, err := io.WriteString(w, b.String())

	return err
}

var historyHeaders = []string{"TIME", "EXPRESSION", "STATUS", "RESULT"}

func historyRows(records []history.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		result := r.Value
		if result == "" {
			result = "-"
		}

		rows = append(rows, []string{
			r.CreatedAt.Format(time.RFC3339),
			r.Expression,
			string(r.Status),
			result,
		})
	}

	return rows
}

func (f *Formatter) historyAsTable(w io.Writer, records []history.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No history")
		return err
	}

	headerStyle := lipgloss.NewStyle().Bold(f.Color).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(historyHeaders...).
		Rows(historyRows(records)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

func historyAsMarkdown(w io.Writer, records []history.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No history")
		return err
	}

	t := table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers(historyHeaders...).
		Rows(historyRows(records)...)

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	_, err = w.Write(data)

	return err
}
