package stationrank

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
	"github.com/stationrank/stationrank-go/pkg/stationrank/parser"
)

// IsSupported reports whether name has an extension Decode accepts.
func IsSupported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".csv", ".tsv":
		return true
	}
	return false
}

// Load reads the rows of the spreadsheet at path.
func Load(path string, opts Options) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	return Decode(f, filepath.Base(path), opts)
}

// Decode reads rows from r. The decoder is chosen by the extension of name.
func Decode(r io.Reader, name string, opts Options) ([]models.Record, error) {
	var (
		records []models.Record
		err     error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx":
		records, err = decodeWorkbook(r, name, opts.Sheet, opts.logger())
	case ".csv":
		records, err = decodeCSV(r, name, ',')
	case ".tsv":
		records, err = decodeCSV(r, name, '\t')
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, err
	}

	opts.logger().Info("Decoded rows", zap.String("source", name), zap.Int("rows", len(records)))
	return records, nil
}

func decodeWorkbook(r io.Reader, name, sheet string, logger *zap.Logger) ([]models.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewDecodeError(name, "xlsx", fmt.Errorf("%w: %w", ErrInvalidFormat, err))
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, NewDecodeError(name, "sheet", fmt.Errorf("sheet %q does not exist", sheet))
	}

	records, table, ok, err := parser.ReadSheetTable(f, sheet)
	if err != nil {
		return nil, NewDecodeError(name, "xlsx", err)
	}
	if ok {
		logger.Debug("Decoded sheet",
			zap.String("source", name),
			zap.String("sheet", sheet),
			zap.Stringer("range", table),
		)
	}
	return records, nil
}

func decodeCSV(r io.Reader, name string, comma rune) ([]models.Record, error) {
	records, err := parser.ReadCSVRecords(r, comma)
	if err != nil {
		return nil, NewDecodeError(name, "csv", fmt.Errorf("%w: %w", ErrInvalidFormat, err))
	}
	return records, nil
}

// RankRecords ranks already decoded rows. source names them in the result.
func RankRecords(records []models.Record, source string, opts Options) *models.Result {
	result := opts.Engine().Rank(records)
	result.Source = source
	return result
}

// Rank loads the spreadsheet at path and ranks its rows.
func Rank(path string, opts Options) (*models.Result, error) {
	records, err := Load(path, opts)
	if err != nil {
		return nil, err
	}
	return RankRecords(records, filepath.Base(path), opts), nil
}
