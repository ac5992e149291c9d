package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/stationrank/stationrank-go/pkg/stationrank/columns"
	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
	"github.com/stationrank/stationrank-go/pkg/stationrank/parser"
	"github.com/stationrank/stationrank-go/pkg/stationrank/ranking"
)

const (
	// DateNumFmt is the display format of expected-date cells.
	DateNumFmt = "dd.mm.yyyy"
	// MaxSheetNameLength is the longest sheet name Excel accepts.
	MaxSheetNameLength = 31
	// EmptySheetName names the only sheet of a workbook with no partitions.
	EmptySheetName = "Results"
)

var invalidSheetChars = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// WriteXLSX writes result as a workbook with one sheet per partition.
func WriteXLSX(w io.Writer, result *models.Result) error {
	f, err := BuildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook renders result into a new workbook. The caller closes it.
func BuildWorkbook(result *models.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: stringPtr(DateNumFmt)})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create date style: %w", err)
	}

	names := SheetNames(result.Partitions)
	if len(names) == 0 {
		if err := f.SetSheetName(defaultSheet, EmptySheetName); err != nil {
			f.Close()
			return nil, err
		}
		return f, nil
	}

	for i, p := range result.Partitions {
		if i == 0 {
			err = f.SetSheetName(defaultSheet, names[i])
		} else {
			_, err = f.NewSheet(names[i])
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %q: %w", names[i], err)
		}
		if err := writePartition(f, names[i], p, dateStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("write sheet %q: %w", names[i], err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writePartition(f *excelize.File, sheet string, p models.Partition, dateStyle int) error {
	header := Header(p)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}

	for r, row := range p.Rows {
		values := make([]interface{}, len(header))
		var dateCols []int
		for c, col := range header {
			v, isDate := cellValue(row, col)
			values[c] = v
			if isDate {
				dateCols = append(dateCols, c+1)
			}
		}

		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}
		for _, c := range dateCols {
			cell, err := excelize.CoordinatesToCellName(c, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellValue returns the value written for col and whether it is a date cell.
func cellValue(row models.RankedRow, col string) (interface{}, bool) {
	switch {
	case col == RankColumn:
		return row.Rank, false
	case col == ranking.SupplyCompletionColumn:
		return CellText(row, col), false
	}

	v, _ := row.Record.Get(col)
	if columns.IsExpectedDateColumn(col) {
		if d, ok := parser.NormalizeDate(v); ok {
			return d, true
		}
	}
	if v == nil {
		return "", false
	}
	return v, false
}

// SheetNames derives unique, valid sheet names from partition labels.
func SheetNames(partitions []models.Partition) []string {
	names := make([]string, len(partitions))
	used := make(map[string]struct{}, len(partitions))
	for i, p := range partitions {
		base := SanitizeSheetName(p.Label)
		name := base
		for n := 2; ; n++ {
			if _, taken := used[strings.ToLower(name)]; !taken {
				break
			}
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncateRunes(base, MaxSheetNameLength-len(suffix)) + suffix
		}
		used[strings.ToLower(name)] = struct{}{}
		names[i] = name
	}
	return names
}

// SanitizeSheetName replaces characters Excel rejects in sheet names and
// truncates the result to MaxSheetNameLength characters.
func SanitizeSheetName(label string) string {
	name := strings.Trim(invalidSheetChars.Replace(label), "'")
	name = truncateRunes(strings.TrimSpace(name), MaxSheetNameLength)
	if name == "" {
		return "Sheet"
	}
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func stringPtr(s string) *string {
	return &s
}
