package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/stoik/spf-harvester/internal/models"
)

// WriteError reports an I/O failure while producing the report file
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsWriteError reports whether err (or any error in its chain) is a WriteError
func IsWriteError(err error) bool {
	var writeErr *WriteError
	return errors.As(err, &writeErr)
}

// Encode writes the header row followed by one row per record.
// Rows end with CRLF.
func Encode(w io.Writer, records []models.ParsedRecord) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(models.ReportColumns); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile truncates (or creates) path and writes the report to it.
// A failure part way through leaves the file incomplete.
func WriteFile(path string, records []models.ParsedRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Err: cerr}
		}
	}()

	if err := Encode(f, records); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
