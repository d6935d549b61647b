package glossary

import (
	"encoding/csv"
	"io"
	"strings"
)

var csvHeader = []string{"Term", "Definition", "Category"}

// ExportCSV writes the glossary as CSV with a header row. Quoting and
// quote-doubling follow RFC 4180, so definitions may contain commas,
// quotes and newlines.
func ExportCSV(writer io.Writer, terms []Term) error {
	out := csv.NewWriter(writer)

	err := out.Write(csvHeader)
	if err != nil {
		return err
	}

	for _, term := range terms {
		err = out.Write([]string{term.Term, term.Definition, term.Category})
		if err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}

// ParseCSV reads glossary rows from CSV. A first row containing "term" in
// any casing is treated as a header and skipped. Rows with fewer than two
// fields are ignored; a missing category defaults to "General".
func ParseCSV(reader io.Reader) ([]Term, error) {
	in := csv.NewReader(reader)
	in.FieldsPerRecord = -1

	records, err := in.ReadAll()
	if err != nil {
		return nil, err
	}

	var terms []Term
	for i, record := range records {
		if i == 0 && isHeaderRow(record) {
			continue
		}
		if len(record) < 2 {
			continue
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}

		category := "General"
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			category = strings.TrimSpace(record[2])
		}

		terms = append(terms, Term{
			Term:       name,
			Definition: record[1],
			Category:   category,
		})
	}
	return terms, nil
}

// A first row containing "term" anywhere, in any casing, is a header.
// "Terms" and "Term Name" count too.
func isHeaderRow(record []string) bool {
	for _, field := range record {
		if strings.Contains(strings.ToLower(field), "term") {
			return true
		}
	}
	return false
}
