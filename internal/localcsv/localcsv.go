// Package localcsv reads raw bank exports and writes the cleaned views as
// local CSV files. Local output is the always-available fallback: it is
// produced whether or not a remote sync happens.
package localcsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dvloznov/bank-cleaner/internal/schema"
	"github.com/dvloznov/bank-cleaner/internal/views"
)

// ReadTable parses a CSV export into a raw table. The first record is the
// header; short rows are padded with empty cells, long rows are truncated to
// the header width.
func ReadTable(path string) (schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.Table{}, fmt.Errorf("ReadTable: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return schema.Table{}, fmt.Errorf("ReadTable: parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return schema.Table{}, fmt.Errorf("ReadTable: %s is empty", path)
	}

	header := records[0]
	t := schema.Table{Columns: make([]string, len(header))}
	for i, col := range header {
		t.Columns[i] = strings.TrimSpace(col)
	}

	for _, rec := range records[1:] {
		row := make(schema.RawRow, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// FileName returns the output file name for a view.
func FileName(v views.View) string {
	switch v.Name {
	case views.MasterName:
		return "cleaned_master.csv"
	case views.IncomingName:
		return "incoming_payments.csv"
	case views.OutgoingName:
		return "outgoing_payments.csv"
	default:
		return sanitize(strings.TrimPrefix(v.Name, views.MerchantPrefix)) + "_transactions.csv"
	}
}

// WriteView writes one view to dir and returns the file path. Source cells
// are plain text (Master!A<row>) rather than live formulas, since a local
// file has no sheet to reference.
func WriteView(dir string, v views.View, masterTitle string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("WriteView: %w", err)
	}
	path := filepath.Join(dir, FileName(v))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("WriteView: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(v.Header()); err != nil {
		return "", fmt.Errorf("WriteView: %s: %w", path, err)
	}
	rows := v.Rows(func(masterRow int) string {
		// +1 skips the header row of the master file.
		return fmt.Sprintf("%s!A%d", masterTitle, masterRow+1)
	})
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("WriteView: %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("WriteView: %s: %w", path, err)
	}
	return path, nil
}

// ReadView reads back a written view file: header plus data rows.
func ReadView(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ReadView: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("ReadView: parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("ReadView: %s is empty", path)
	}
	return records[0], records[1:], nil
}

// sanitize makes a view name safe as a file name component.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, name)
}
