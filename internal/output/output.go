package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Printer writes command results in the configured format.
type Printer struct {
	out    io.Writer
	format string
}

func NewPrinter(out io.Writer, format string) *Printer {
	if format == "" {
		format = FormatTable
	}
	return &Printer{out: out, format: format}
}

func (p *Printer) Format() string {
	return p.format
}

// Print renders v. For tables, header and rows are used; otherwise v is
// encoded as a whole.
func (p *Printer) Print(v any, header table.Row, rows []table.Row) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		t := table.NewWriter()
		t.SetOutputMirror(p.out)
		t.AppendHeader(header)
		t.AppendRows(rows)
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", p.format)
	}
}
