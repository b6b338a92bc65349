package analyzer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema is the sentinel wrapped by every SchemaError
var ErrSchema = errors.New("schema error")

// SchemaError reports required columns missing from the input table
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: missing required columns %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// RawTable is an untyped bar table as it arrives from ingestion
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Column identifies one of the required bar fields
type Column int

const (
	ColSymbol Column = iota
	ColTimestamp
	ColOpen
	ColHigh
	ColLow
	ColClose
	ColVolume
	numColumns
)

var columnNames = [numColumns]string{"SYMBOL", "TIMESTAMP", "OPEN", "HIGH", "LOW", "CLOSE", "TOTTRDQTY"}

// columnAliases maps upper-cased header names onto required fields.
// The canonical names are the smart DB headers written by the harvester.
var columnAliases = map[string]Column{
	"SYMBOL":    ColSymbol,
	"TICKER":    ColSymbol,
	"ENTITY":    ColSymbol,
	"TIMESTAMP": ColTimestamp,
	"DATE":      ColTimestamp,
	"TIME":      ColTimestamp,
	"OPEN":      ColOpen,
	"HIGH":      ColHigh,
	"LOW":       ColLow,
	"CLOSE":     ColClose,
	"TOTTRDQTY": ColVolume,
	"VOLUME":    ColVolume,
	"VOL":       ColVolume,
}

// String returns the canonical header for the column
func (c Column) String() string {
	if c < 0 || c >= numColumns {
		return "UNKNOWN"
	}
	return columnNames[c]
}

// CanonicalColumns returns the headers the harvester writes, in order
func CanonicalColumns() []string {
	cols := make([]string, numColumns)
	copy(cols, columnNames[:])
	return cols
}

// resolveColumns maps each required field to its index in the header.
// The first header matching an alias wins.
func resolveColumns(header []string) ([numColumns]int, error) {
	var idx [numColumns]int
	for i := range idx {
		idx[i] = -1
	}

	for i, name := range header {
		key := strings.ToUpper(strings.TrimSpace(name))
		col, ok := columnAliases[key]
		if !ok || idx[col] >= 0 {
			continue
		}
		idx[col] = i
	}

	var missing []string
	for c, i := range idx {
		if i < 0 {
			missing = append(missing, Column(c).String())
		}
	}
	if len(missing) > 0 {
		return idx, &SchemaError{Missing: missing}
	}
	return idx, nil
}
