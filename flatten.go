package srafetch

import (
	"fmt"
	"io"
	"strings"
)

// field binds an output column to the nested path it is read from. The
// run accession has no record-level path, it comes from the run itself.
type field struct {
	name string
	path []string
}

// fields is the output schema in column order.
var fields = []field{
	{"run_accession", nil},
	{"bioproject_accession", []string{"Bioproject"}},
	{"experiment_accession", []string{"Experiment", "acc"}},
	{"experiment_title", []string{"Experiment", "name"}},
	{"organism_name", []string{"Organism", "ScientificName"}},
	{"instrument", []string{"Instrument", "ILLUMINA"}},
	{"submitter_center", []string{"Submitter", "center_name"}},
	{"study_accession", []string{"Study", "acc"}},
	{"study_title", []string{"Study", "name"}},
	{"sample_accession", []string{"Sample", "acc"}},
	{"sample_title", []string{"Sample", "name"}},
	{"total_size", []string{"Summary", "Statistics", "total_size"}},
	{"total_runs", []string{"Summary", "Statistics", "total_runs"}},
	{"total_spots", []string{"Summary", "Statistics", "total_spots"}},
	{"total_bases", []string{"Summary", "Statistics", "total_bases"}},
	{"library_name", []string{"Library_descriptor", "LIBRARY_NAME"}},
	{"library_strategy", []string{"Library_descriptor", "LIBRARY_STRATEGY"}},
	{"library_source", []string{"Library_descriptor", "LIBRARY_SOURCE"}},
	{"library_selection", []string{"Library_descriptor", "LIBRARY_SELECTION"}},
}

// Header returns the column names in output order.
func Header() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// Rows flattens one assembled record into one row per attached run, in
// run order. All record-level columns repeat identically across the rows
// of one record. A missing path is an error, there is no defaulting.
func Rows(record Value) ([][]string, error) {
	runs, ok := record.Get("runs")
	if !ok {
		return nil, errorf(KindMissingField, "record carries no runs")
	}
	base := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		s, err := scalarAt(record, f.path...)
		if err != nil {
			return nil, err
		}
		base = append(base, s)
	}
	var rows [][]string
	for _, run := range runs.Items {
		acc, err := scalarAt(run, "acc")
		if err != nil {
			return nil, err
		}
		row := make([]string, 0, len(fields))
		row = append(row, acc)
		row = append(row, base...)
		rows = append(rows, row)
	}
	return rows, nil
}

// scalarAt reads a non-null scalar from a nested path.
func scalarAt(v Value, path ...string) (string, error) {
	node, ok := v.Path(path...)
	if !ok {
		return "", errorf(KindMissingField, "no value at %s", strings.Join(path, "."))
	}
	if node.Kind != ScalarKind || node.Null {
		return "", errorf(KindMissingField, "no scalar at %s", strings.Join(path, "."))
	}
	return node.Text, nil
}

// writeRow joins the columns with commas. Values are written as-is: a
// comma inside a value corrupts the row boundary.
func writeRow(w io.Writer, row []string) error {
	_, err := fmt.Fprintln(w, strings.Join(row, ","))
	return err
}
