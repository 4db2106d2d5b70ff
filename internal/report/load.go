package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Run is a record file read back into columns.
type Run struct {
	Path   string
	Times  []float64
	States [][4]float64
	Forces []float64
}

func (r *Run) Len() int { return len(r.Times) }

// Column returns one state component (0..3) or, for index 4, the force.
func (r *Run) Column(i int) []float64 {
	out := make([]float64, len(r.Times))
	for k := range out {
		if i == 4 {
			out[k] = r.Forces[k]
		} else {
			out[k] = r.States[k][i]
		}
	}
	return out
}

// Load parses a record file. Header lines are skipped.
func Load(path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	run := &Run{Path: path}
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] == Columns[0] {
			continue
		}
		if len(fields) != 6 {
			return nil, fmt.Errorf("%s:%d: expected 6 fields, got %d", path, line, len(fields))
		}
		var vals [6]float64
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
			vals[i] = v
		}
		run.Times = append(run.Times, vals[0])
		run.States = append(run.States, [4]float64{vals[1], vals[2], vals[3], vals[4]})
		run.Forces = append(run.Forces, vals[5])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return run, nil
}

// List returns the output files in dir ordered by their index.
func List(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "output*.dat"))
	if err != nil {
		return nil, err
	}

	type indexed struct {
		path string
		n    int
	}
	files := make([]indexed, 0, len(matches))
	for _, m := range matches {
		num := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "output"), ".dat")
		n, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		files = append(files, indexed{m, n})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].n < files[j].n })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}
