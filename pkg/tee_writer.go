package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// TeeWriter duplicates each write to all of its writers. Unlike io.MultiWriter
// it keeps going when one of them fails, so a broken log file never silences
// stdout. Errors from all failing writers are combined.
type TeeWriter struct {
	writers []io.Writer
}

func NewTeeWriter(writers ...io.Writer) *TeeWriter {
	return &TeeWriter{writers: writers}
}

// Write reports len(p) once at least one writer took the whole payload.
func (t *TeeWriter) Write(p []byte) (int, error) {
	var (
		errs error
		full bool
	)
	for _, w := range t.writers {
		n, err := w.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		full = true
	}
	if full {
		return len(p), errs
	}
	return 0, errs
}
