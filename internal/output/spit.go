// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/staranto/regctl/internal/attrs"
	"github.com/staranto/regctl/internal/config"
	"github.com/staranto/regctl/internal/filters"
)

// Formats lists the supported --output values.
var Formats = []string{"text", "json", "raw", "yaml"}

// Options controls how rows are rendered.
type Options struct {
	Format  string
	Filter  string
	Sort    string
	Titles  bool
	Color   bool
	Columns []string
	// Attrs, when set, selects, renames and transforms the columns of the
	// json, yaml and text forms. It takes precedence over Columns.
	Attrs attrs.AttrList
}

// SliceDiceSpit filters, sorts and renders rows to w according to opts.
func SliceDiceSpit(w io.Writer, rows []map[string]interface{}, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	rows = filters.Apply(rows, opts.Filter)
	SortDataset(rows, opts.Sort)

	if opts.Format == "raw" {
		// The raw form is the id -> value object, the way a caller of the
		// registry sees it.
		content := make(map[string]interface{}, len(rows))
		for _, row := range rows {
			content[InterfaceToString(row[ColID])] = row[ColValue]
		}
		return writeJSON(w, content)
	}

	columns := opts.Columns
	if len(columns) == 0 {
		columns = Columns
	}
	if len(opts.Attrs) > 0 {
		rows = opts.Attrs.Apply(rows)
		columns = opts.Attrs.Columns()
	}

	switch opts.Format {
	case "json":
		return writeJSON(w, project(rows, columns))
	case "yaml":
		out, err := yaml.Marshal(project(rows, columns))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		TableWriter(w, rows, columns, opts)
		return nil
	}
}

// SpitValue renders a single value. Text output prints strings bare and
// everything else as JSON.
func SpitValue(w io.Writer, v interface{}, format string) error {
	switch format {
	case "json", "raw":
		return writeJSON(w, v)
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		_, err := fmt.Fprintln(w, InterfaceToString(v, "null"))
		return err
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// project keeps only columns of each row.
func project(rows []map[string]interface{}, columns []string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		p := make(map[string]interface{}, len(columns))
		for _, c := range columns {
			p[c] = row[c]
		}
		out = append(out, p)
	}
	return out
}

// TableWriter renders rows as a borderless table honoring color and titles.
func TableWriter(w io.Writer, rows []map[string]interface{}, columns []string, opts Options) {
	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 2)
	log.Debugf("padding: %v", pad)

	var cells [][]string
	for _, row := range rows {
		line := make([]string, 0, len(columns))
		for _, c := range columns {
			line = append(line, cellString(c, row[c]))
		}
		cells = append(cells, line)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(cells...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(columns...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

func cellString(column string, v interface{}) string {
	if column == ColSize {
		if n, ok := v.(int); ok {
			return humanize.Bytes(uint64(n)) //nolint:gosec
		}
	}
	return InterfaceToString(v, "-")
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// IsTerminal reports whether w is attached to a terminal. Color defaults to
// on only in that case.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	if fder, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

// InterfaceToString converts a value to its display string. nil yields the
// optional empty value.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	switch value := value.(type) {
	case nil:
		return emptyValue[0]
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
