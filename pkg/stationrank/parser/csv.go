package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

// ReadCSVRecords decodes delimited text into records. A leading UTF-8 BOM is
// ignored and rows may have differing field counts.
func ReadCSVRecords(r io.Reader, comma rune) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return RowsToRecords(rows), nil
}
