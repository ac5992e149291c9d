package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

// ByteOrderMark prefixes CSV exports so spreadsheet applications detect UTF-8.
const ByteOrderMark = "\ufeff"

// WriteCSV writes result as quoted, comma-separated text. The header line is
// the rank column plus the first partition's columns; partitions are
// separated by a blank line. Lines end with "\n" and the last line has no
// terminator.
func WriteCSV(w io.Writer, result *models.Result) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(ByteOrderMark)

	var header []string
	if len(result.Partitions) > 0 {
		header = Header(result.Partitions[0])
	} else {
		header = []string{RankColumn}
	}
	writeCSVLine(bw, header)

	for i, p := range result.Partitions {
		if i > 0 {
			bw.WriteString("\n")
		}
		for _, row := range p.Rows {
			bw.WriteString("\n")
			writeCSVLine(bw, RowText(row, header))
		}
	}
	return bw.Flush()
}

func writeCSVLine(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
}
