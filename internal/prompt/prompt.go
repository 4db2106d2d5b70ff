// Package prompt asks for the initial state on an interactive terminal.
// Tokens are parsed with strconv.ParseFloat, so hex floats are accepted and
// grouped values such as 1,000 are skipped as non-numeric.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/invpend/internal/physics"
)

var labels = [4]string{
	"Initial cart position",
	"Initial cart velocity",
	"Initial pendulum position",
	"Initial pendulum velocity",
}

// Message is the prompt line for state component i.
func Message(i int, r physics.Range) string {
	return fmt.Sprintf("%s (from %4.2f to %4.2f): ", labels[i], r.Min, r.Max)
}

// ReadInitialState reads the four state components as whitespace separated
// tokens. Tokens that are not numbers are skipped and values outside their
// range are rejected; both repeat the prompt.
func ReadInitialState(in io.Reader, out io.Writer, limits physics.Limits) ([4]float64, error) {
	var x [4]float64

	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)

	for i, r := range limits.Ranges() {
		msg := Message(i, r)
		for {
			fmt.Fprintln(out, msg)
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return x, fmt.Errorf("read %s: %w", physics.StateNames[i], err)
				}
				return x, fmt.Errorf("read %s: %w", physics.StateNames[i], io.ErrUnexpectedEOF)
			}
			v, err := strconv.ParseFloat(sc.Text(), 64)
			if err != nil {
				continue
			}
			if r.Contains(v) {
				x[i] = v
				break
			}
		}
	}
	return x, nil
}
