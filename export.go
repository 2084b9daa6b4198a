package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
)

// exportFormat describes the delimited bulk-export file format.
// Binary columns are written as bare lower-case hex; a leading 0x or
// \x prefix is invalid in this format.
type exportFormat struct {
	delimiter  byte
	quote      byte
	escape     byte
	nullString string
}

func newExportFormat(cfg ExportConfig) exportFormat {
	return exportFormat{
		delimiter:  cfg.Delimiter[0],
		quote:      cfg.Quote[0],
		escape:     cfg.Escape[0],
		nullString: cfg.NullString,
	}
}

// exportTable streams one table's rows to w in the delimited format,
// excluding ignoredColumns, converting values with the same mapping
// rules the direct pipeline uses. Returns the number of rows written.
func exportTable(ctx context.Context, src sourceReader, t *Table, ignoredColumns []string, tm TypeMapping, f exportFormat, chunkSize int64, w io.Writer) (int64, error) {
	columnTypes := columnTypeMap(t, ignoredColumns)

	var written int64
	var offset int64
	for {
		columns, rows, err := src.GetRows(ctx, t.Name, offset, chunkSize, ignoredColumns)
		if err != nil {
			return written, fmt.Errorf("export %s at offset %d: %w", t.Name, offset, err)
		}
		if len(rows) == 0 {
			return written, nil
		}

		var line strings.Builder
		for _, row := range rows {
			line.Reset()
			for i, val := range row {
				if i > 0 {
					line.WriteByte(f.delimiter)
				}
				converted := tm.ConvertValue(val, columnTypes[columns[i]])
				line.WriteString(f.renderField(converted, columnTypes[columns[i]]))
			}
			line.WriteByte('\n')
			if _, err := io.WriteString(w, line.String()); err != nil {
				return written, fmt.Errorf("export %s: write: %w", t.Name, err)
			}
			written++
		}
		offset += int64(len(rows))
	}
}

// renderField renders one converted value as an export field.
func (f exportFormat) renderField(val any, normalizedType string) string {
	switch v := val.(type) {
	case nil:
		return f.nullString
	case bool:
		if v {
			return "1"
		}
		return "0"
	case []byte:
		return hex.EncodeToString(v)
	case time.Time:
		if normalizedType == "date" {
			return v.Format("2006-01-02")
		}
		return v.Format("2006-01-02 15:04:05")
	case string:
		return f.quoteField(v)
	default:
		return fmt.Sprint(v)
	}
}

// quoteField wraps a string field in quote characters when it contains
// the delimiter, quote, escape, or a line break, escaping embedded
// quote and escape characters.
func (f exportFormat) quoteField(s string) string {
	needsQuoting := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case f.delimiter, f.quote, f.escape, '\n', '\r':
			needsQuoting = true
		}
	}
	if !needsQuoting {
		return s
	}

	var b strings.Builder
	b.WriteByte(f.quote)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == f.quote || c == f.escape {
			b.WriteByte(f.escape)
		}
		b.WriteByte(c)
	}
	b.WriteByte(f.quote)
	return b.String()
}

// validateHexField checks a binary field read back from an export
// file: bare hex only, no 0x or \x prefix, even length, hex digits
// throughout.
func validateHexField(field string) error {
	if strings.HasPrefix(field, "0x") || strings.HasPrefix(field, "0X") {
		return fmt.Errorf("hex field carries a 0x prefix")
	}
	if strings.HasPrefix(field, `\x`) {
		return fmt.Errorf(`hex field carries a \x prefix`)
	}
	if len(field)%2 != 0 {
		return fmt.Errorf("hex field has odd length %d", len(field))
	}
	if _, err := hex.DecodeString(field); err != nil {
		return fmt.Errorf("invalid hex field: %w", err)
	}
	return nil
}
