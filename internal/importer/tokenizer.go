package importer

import "strings"

// SplitLine tokenizes one physical line into fields, honoring double-quote
// enclosed fields that may contain the delimiter. A quote character flips an
// "inside quotes" flag; the delimiter only separates fields while the flag is
// off. Surrounding quotes are stripped. Malformed quoting is not an error —
// the tokenizer degrades to best-effort splitting. Multi-line quoted fields
// are not supported.
func SplitLine(line string, delim rune) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))

	return fields
}

// DetectDelimiter picks the delimiter for a file from its header line.
// Spreadsheet exports arrive both semicolon- and comma-delimited; whichever
// occurs more often outside quotes wins, with comma as the tie-breaker.
func DetectDelimiter(headerLine string) rune {
	commas, semis := 0, 0
	inQuotes := false
	for _, r := range headerLine {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semis++
			}
		}
	}
	if semis > commas {
		return ';'
	}
	return ','
}
