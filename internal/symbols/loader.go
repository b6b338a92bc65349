package symbols

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Loader resolves the symbol list for a harvest from an explicit list,
// a symbols file, or a predefined universe, in that order of preference
type Loader struct {
	suffix string
}

// NewLoader creates a loader that strips suffix (e.g. ".NS") from inputs
func NewLoader(suffix string) *Loader {
	return &Loader{suffix: suffix}
}

// Resolve returns the normalized, de-duplicated symbol list.
// Explicit symbols take precedence over the universe.
func (l *Loader) Resolve(explicit []string, universe string) ([]string, error) {
	if len(explicit) > 0 {
		syms := l.normalize(explicit)
		if len(syms) == 0 {
			return nil, fmt.Errorf("no valid symbols in %v", explicit)
		}
		return syms, nil
	}

	list := GetUniverse(Universe(strings.ToLower(strings.TrimSpace(universe))))
	if list == nil {
		return nil, fmt.Errorf("unknown universe: %s", universe)
	}
	return l.normalize(list), nil
}

// LoadFile reads one symbol per line; blank lines and '#' comments are skipped
func (l *Loader) LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening symbols file: %w", err)
	}
	defer f.Close()

	return l.Read(f)
}

// Read parses a symbol list from r in the LoadFile format
func (l *Loader) Read(r io.Reader) ([]string, error) {
	var raw []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw = append(raw, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading symbols: %w", err)
	}
	return l.normalize(raw), nil
}

// ParseList splits a comma-separated flag value
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (l *Loader) normalize(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if l.suffix != "" {
			sym = strings.TrimSuffix(sym, strings.ToUpper(l.suffix))
		}
		if !isValidSymbol(sym) || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

// isValidSymbol accepts NSE-style tickers such as M&M and BAJAJ-AUTO
func isValidSymbol(symbol string) bool {
	if len(symbol) == 0 || len(symbol) > 20 {
		return false
	}
	for _, c := range symbol {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '&' || c == '-' || c == '_') {
			return false
		}
	}
	return true
}
