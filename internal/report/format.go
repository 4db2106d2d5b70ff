// Package report writes the per-step record stream of a run and reads it
// back.
package report

import "fmt"

// Columns are the header labels of a record file.
var Columns = [6]string{"t[s]", "x1[m]", "x2[m/s]", "x3[rad]", "x4[rad/s]", "F[N]"}

// Header is the column line written before the record at t = 0.
func Header() string {
	return fmt.Sprintf("%6s\t%15s\t%15s\t%15s\t%15s\t%12s\n",
		Columns[0], Columns[1], Columns[2], Columns[3], Columns[4], Columns[5])
}

// Format renders one record: time, the four state components and the
// applied force.
func Format(t float64, x [4]float64, force float64) string {
	return fmt.Sprintf("%6.2f\t%+10.8e\t%+10.8e\t%+10.8e\t%+10.8e\t%+8.6e\n",
		t, x[0], x[1], x[2], x[3], force)
}
