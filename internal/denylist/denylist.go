// Package denylist holds the curated set of known fraudulent app names that
// are flagged without consulting the model.
package denylist

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// NameColumn is the header of the name column in tabular sources.
const NameColumn = "App name"

// ErrNoNameColumn means a CSV source lacks the NameColumn header.
var ErrNoNameColumn = errors.New("deny list has no \"" + NameColumn + "\" column")

// List is immutable once built and safe for concurrent reads.
type List struct {
	names map[string]struct{}
}

// Normalize trims surrounding whitespace and lower-cases name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New builds a list from raw names. Blank names are skipped.
func New(names []string) *List {
	l := &List{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if key := Normalize(n); key != "" {
			l.names[key] = struct{}{}
		}
	}
	return l
}

// Contains reports whether name, once normalized, is listed.
func (l *List) Contains(name string) bool {
	if l == nil {
		return false
	}
	_, ok := l.names[Normalize(name)]
	return ok
}

// Len returns the number of distinct names.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}

// Names returns the normalized names in sorted order.
func (l *List) Names() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.names))
	for n := range l.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// LoadFile reads a .csv file with a NameColumn header, or any other file as
// one name per line ('#' starts a comment).
func LoadFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deny list: %w", err)
	}
	defer f.Close()

	var names []string
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		names, err = ReadCSV(f)
	} else {
		names, err = ReadLines(f)
	}
	if err != nil {
		return nil, fmt.Errorf("read deny list %s: %w", path, err)
	}
	return New(names), nil
}

// ReadCSV returns the NameColumn values of a CSV document.
func ReadCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoNameColumn
		}
		return nil, err
	}
	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), NameColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrNoNameColumn
	}

	var names []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if col < len(rec) {
			names = append(names, rec[col])
		}
	}
	return names, nil
}

// ReadLines returns one name per non-blank, non-comment line.
func ReadLines(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, sc.Err()
}
