package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/san-kum/invpend/internal/dynamo"
)

const (
	MessageDone    = "DONE!"
	MessageWarning = "DONE, warning: output file might not have been written correctly..."
)

// Reporter echoes every sample to a console writer and appends it to the
// output file in the same order. A failing file stream never stops the run;
// it only clears the OK flag.
type Reporter struct {
	console io.Writer
	file    io.WriteCloser
	buf     *bufio.Writer
	path    string
	ok      bool
	log     *zap.Logger
}

// Create opens the next free output file in dir. When the file cannot be
// created the reporter still echoes to the console and reports a warning
// status at the end.
func Create(dir string, console io.Writer, log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	path, err := NextPath(dir)
	if err == nil {
		var f *os.File
		f, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			return newReporter(console, f, path, log)
		}
	}
	log.Warn("output file unavailable, continuing on console only", zap.String("path", path), zap.Error(err))
	r := newReporter(console, nil, path, log)
	r.ok = false
	return r
}

func newReporter(console io.Writer, file io.WriteCloser, path string, log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Reporter{console: console, file: file, path: path, ok: true, log: log}
	if file != nil {
		r.buf = bufio.NewWriter(file)
	}
	return r
}

func (r *Reporter) Path() string { return r.path }

// OK reports whether every record reached the output file.
func (r *Reporter) OK() bool { return r.ok }

// OnStep writes the record for one sample, preceded by the header when
// t is zero.
func (r *Reporter) OnStep(x dynamo.State, u dynamo.Control, t float64) {
	var line string
	if t == 0 {
		line = Header()
	}
	line += Format(t, [4]float64{x[0], x[1], x[2], x[3]}, u.Scalar())

	if r.console != nil {
		fmt.Fprint(r.console, line)
	}
	r.write(line)
}

func (r *Reporter) write(line string) {
	if r.buf == nil || !r.ok {
		return
	}
	if _, err := r.buf.WriteString(line); err != nil {
		r.fail("write", err)
		return
	}
	if err := r.buf.Flush(); err != nil {
		r.fail("flush", err)
	}
}

func (r *Reporter) fail(op string, err error) {
	r.ok = false
	r.log.Warn("output stream failed", zap.String("op", op), zap.String("path", r.path), zap.Error(err))
}

// Close flushes and closes the output file.
func (r *Reporter) Close() error {
	if r.file == nil {
		return nil
	}
	var errs []error
	if err := r.buf.Flush(); err != nil {
		errs = append(errs, err)
	}
	if err := r.file.Close(); err != nil {
		errs = append(errs, err)
	}
	r.file = nil
	r.buf = nil
	if err := errors.Join(errs...); err != nil {
		r.fail("close", err)
		return err
	}
	return nil
}

// Status is the closing message of a run.
func (r *Reporter) Status() string {
	if r.ok {
		return MessageDone
	}
	return MessageWarning
}

// NextPath returns the first dir/outputN.dat that does not exist yet,
// starting from N = 1.
func NextPath(dir string) (string, error) {
	for i := 1; ; i++ {
		path := filepath.Join(dir, fmt.Sprintf("output%d.dat", i))
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", err
		}
	}
}
