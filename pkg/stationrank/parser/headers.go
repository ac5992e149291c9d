package parser

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// EmptyHeaderPrefix names columns whose header cell is blank.
const EmptyHeaderPrefix = "__EMPTY"

// NormalizeHeader cleans a header cell: NFC normalization, BOM and
// surrounding whitespace removed. Hebrew headers typed on different systems
// may carry combining marks in either composed or decomposed form.
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = norm.NFC.String(s)
	return strings.TrimSpace(s)
}

// BuildHeader normalizes header cells and makes the names unique.
// Blank headers become __EMPTY, __EMPTY_1, ... and repeated names get a
// numeric suffix (name, name_1, name_2).
func BuildHeader(cells []string) []string {
	header := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, cell := range cells {
		name := NormalizeHeader(cell)
		if name == "" {
			name = EmptyHeaderPrefix
		}
		if _, dup := seen[name]; dup {
			base := name
			for n := seen[base] + 1; ; n++ {
				candidate := base + "_" + strconv.Itoa(n)
				if _, taken := seen[candidate]; !taken {
					seen[base] = n
					name = candidate
					break
				}
			}
		}
		seen[name] = 0
		header[i] = name
	}
	return header
}
