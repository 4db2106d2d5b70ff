package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ExportData is the JSON form of a record file.
type ExportData struct {
	Source string       `json:"source"`
	Steps  int          `json:"steps"`
	Dt     float64      `json:"dt"`
	Times  []float64    `json:"times"`
	States [][4]float64 `json:"states"`
	Forces []float64    `json:"forces"`
}

func newExportData(run *Run) ExportData {
	data := ExportData{
		Source: run.Path,
		Steps:  run.Len(),
		Times:  run.Times,
		States: run.States,
		Forces: run.Forces,
	}
	if run.Len() > 1 {
		data.Dt = run.Times[1] - run.Times[0]
	}
	return data
}

func ExportJSON(w io.Writer, run *Run) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(run))
}

// ExportCSV writes one row per record under the record file's column names.
func ExportCSV(w io.Writer, run *Run) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns[:]); err != nil {
		return err
	}

	row := make([]string, len(Columns))
	for i, t := range run.Times {
		row[0] = strconv.FormatFloat(t, 'f', -1, 64)
		for j, v := range run.States[i] {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		row[5] = strconv.FormatFloat(run.Forces[i], 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Export writes run in the named format, json or csv.
func Export(w io.Writer, run *Run, format string) error {
	switch format {
	case "json":
		return ExportJSON(w, run)
	case "csv":
		return ExportCSV(w, run)
	}
	return fmt.Errorf("unknown export format %q (want json or csv)", format)
}
