// Package report encodes contract summaries for object storage.
package report

import (
	"bytes"
	"fmt"
	"strings"

	summary "github.com/rinklabs/contractcomps/internal/domain/report"
)

// Formats accepted by ForFormat.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Encoder renders summary rows into an object body.
type Encoder interface {
	Encode(rows []summary.Row) ([]byte, error)
	// Ext is the file extension including the dot.
	Ext() string
}

// ForFormat returns the encoder for format.
func ForFormat(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return CSV{}, nil
	case FormatParquet:
		return Parquet{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// CSV writes the summary table with a header row.
type CSV struct{}

// Encode implements Encoder.
func (CSV) Encode(rows []summary.Row) ([]byte, error) {
	var buf bytes.Buffer
	if err := summary.ToTable(rows).WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("report: encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Ext implements Encoder.
func (CSV) Ext() string { return ".csv" }
