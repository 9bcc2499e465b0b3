// Package output renders backend payloads for portalctl
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Format represents an output format
type Format string

const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat validates the given format name
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatJSON, FormatTable:
		return Format(raw), nil
	default:
		return "", fmt.Errorf("unknown output format %q (use json or table)", raw)
	}
}

// tableColumns are the fields shown in table output, in order
var tableColumns = []string{"id", "name", "status"}

// Write renders a raw JSON payload in the given format.
// Payloads the table format cannot represent are written as JSON.
func Write(writer io.Writer, format Format, payload []byte) error {
	if format == FormatTable {
		if rows, ok := tableRows(payload); ok {
			return writeTable(writer, rows)
		}
	}

	if len(payload) == 0 {
		return nil
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, payload, "", "  "); err != nil {
		_, err := fmt.Fprintln(writer, string(payload))
		return err
	}
	_, err := fmt.Fprintln(writer, indented.String())
	return err
}

// tableRows extracts the list of objects of a payload; lists may be wrapped in 'items' or 'data'
func tableRows(payload []byte) ([]map[string]any, bool) {
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, false
	}

	switch val := decoded.(type) {
	case map[string]any:
		for _, key := range []string{"items", "data"} {
			if list, ok := val[key].([]any); ok {
				return objects(list)
			}
		}
		return []map[string]any{val}, true
	case []any:
		return objects(val)
	default:
		return nil, false
	}
}

func objects(list []any) ([]map[string]any, bool) {
	rows := make([]map[string]any, 0, len(list))
	for _, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, false
		}
		rows = append(rows, obj)
	}
	return rows, true
}

func writeTable(writer io.Writer, rows []map[string]any) error {
	table := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tNAME\tSTATUS")
	for _, row := range rows {
		for i, column := range tableColumns {
			if i > 0 {
				fmt.Fprint(table, "\t")
			}
			if val, ok := row[column]; ok && val != nil {
				fmt.Fprint(table, val)
			} else {
				fmt.Fprint(table, "-")
			}
		}
		fmt.Fprintln(table)
	}
	return table.Flush()
}
