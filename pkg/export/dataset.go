package export

import "errors"

var errNoHeaders = errors.New("dataset has no headers")

// Dataset is the tabular form of a report. When GroupColumn is set, rows are
// expected to be ordered by that column and renderers may emit group breaks.
type Dataset struct {
	Headers     []string
	Rows        []map[string]string
	GroupColumn string
}

// record returns the row values in header order; missing cells are empty.
func (d Dataset) record(row map[string]string) []string {
	out := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		out[i] = row[header]
	}
	return out
}
