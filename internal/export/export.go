// Package export writes and reads the option chain CSV consumed by the pricer.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"chainfetch/internal/chain"
)

// Header is the column order of the output file.
var Header = []string{"trade_date", "underlying", "spot", "r", "q", "option_type", "maturity_date", "strike", "market_price"}

// WriteFile writes rows to path with a header line, replacing any existing
// file. Parent directories are created. The target is written to a temp file in
// the same directory and renamed into place, so it is never left half written.
func WriteFile(path string, rows []chain.Row) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gocsv.MarshalFile(&rows, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// ReadFile loads an exported chain the way the downstream pricer does: blank
// lines are skipped, cells are trimmed, rows with fewer cells than the header
// are dropped, and an empty option type means a call.
func ReadFile(path string) ([]chain.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) ([]chain.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []chain.Row
	if err := gocsv.UnmarshalCSV(&lenientReader{r: cr}, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, fmt.Errorf("read csv: empty file")
		}
		return nil, fmt.Errorf("read csv: %w", err)
	}
	for i := range rows {
		if rows[i].OptionType == "" {
			rows[i].OptionType = string(chain.Call)
		}
	}
	return rows, nil
}

// lenientReader trims cells and drops blank or short records after the header.
type lenientReader struct {
	r      *csv.Reader
	width  int
	header bool
}

func (l *lenientReader) Read() ([]string, error) {
	for {
		rec, err := l.r.Read()
		if err != nil {
			return nil, err
		}
		blank := true
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
			if rec[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if !l.header {
			l.header, l.width = true, len(rec)
			return rec, nil
		}
		if len(rec) < l.width {
			continue
		}
		return rec, nil
	}
}

func (l *lenientReader) ReadAll() ([][]string, error) {
	var out [][]string
	for {
		rec, err := l.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}
