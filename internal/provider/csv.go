package provider

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"swinglab/internal/analyzer"
	"swinglab/pkg/model"
)

// smart DB timestamps carry the calendar date only
const smartDBDateLayout = "2006-01-02"

// ReadTable reads a CSV bar table. The first record is the header.
// Ragged rows are accepted; missing cells read as empty strings.
func ReadTable(r io.Reader) (analyzer.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return analyzer.RawTable{}, fmt.Errorf("reading header: empty input")
		}
		return analyzer.RawTable{}, fmt.Errorf("reading header: %w", err)
	}

	table := analyzer.RawTable{Columns: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return analyzer.RawTable{}, fmt.Errorf("reading row %d: %w", len(table.Rows)+2, err)
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// ReadFile opens path and reads it with ReadTable
func ReadFile(path string) (analyzer.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return analyzer.RawTable{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ReadTable(f)
}

// WriteBars writes bars as a smart DB CSV with canonical headers
func WriteBars(w io.Writer, bars []model.Bar) error {
	cw := csv.NewWriter(w)
	header := analyzer.CanonicalColumns()
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(header))
	for _, b := range bars {
		record[analyzer.ColSymbol] = b.Symbol
		record[analyzer.ColTimestamp] = b.Time.Format(smartDBDateLayout)
		record[analyzer.ColOpen] = formatPrice(b.Open)
		record[analyzer.ColHigh] = formatPrice(b.High)
		record[analyzer.ColLow] = formatPrice(b.Low)
		record[analyzer.ColClose] = formatPrice(b.Close)
		record[analyzer.ColVolume] = strconv.FormatInt(b.Volume, 10)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing %s: %w", b.Symbol, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes bars to path atomically via a temp file in the same directory
func WriteFile(path string, bars []model.Bar) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".smartdb-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteBars(tmp, bars); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
