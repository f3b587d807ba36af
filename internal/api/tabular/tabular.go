// Package tabular reads the CSV sources the scoring engine consumes and
// resolves logical columns against the header spellings found in the wild.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Table is a parsed CSV file: a header plus rows of equal or shorter length.
type Table struct {
	Path   string
	Header []string
	Rows   [][]string
}

// ReadFile loads a CSV file. A missing file is reported with os.ErrNotExist
// so callers can treat it as an absent table.
func ReadFile(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	t.Path = path
	return t, nil
}

// Parse reads CSV content, stripping a leading UTF-8 BOM from the header.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv")
		}
		return nil, err
	}
	if len(header) > 0 {
		header[0] = string(bytes.TrimPrefix([]byte(header[0]), utf8BOM))
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return &Table{Header: header, Rows: rows}, nil
}

// Column returns the index of the first candidate found in the header.
func (t *Table) Column(candidates ...string) (int, bool) {
	return PickColumn(t.Header, candidates...)
}

// Cell returns the trimmed value at col, or "" when the row is short or col < 0.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// NormalizeHeader lower-cases s and collapses runs of non-alphanumerics to "_".
func NormalizeHeader(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "_")
}

// PickColumn resolves a logical column. Candidates are tried in priority
// order as exact matches, then case-insensitively, then in normalised form.
// The first hit wins.
func PickColumn(header []string, candidates ...string) (int, bool) {
	for _, c := range candidates {
		for i, h := range header {
			if h == c {
				return i, true
			}
		}
	}

	lower := make(map[string]int, len(header))
	for i := len(header) - 1; i >= 0; i-- {
		lower[strings.ToLower(strings.TrimSpace(header[i]))] = i
	}
	for _, c := range candidates {
		if i, ok := lower[strings.ToLower(strings.TrimSpace(c))]; ok {
			return i, true
		}
	}

	norm := make(map[string]int, len(header))
	for i := len(header) - 1; i >= 0; i-- {
		if k := NormalizeHeader(header[i]); meaningfulKey(k) {
			norm[k] = i
		}
	}
	for _, c := range candidates {
		k := NormalizeHeader(c)
		if !meaningfulKey(k) {
			continue
		}
		if i, ok := norm[k]; ok {
			return i, true
		}
	}
	return -1, false
}

// meaningfulKey rejects normalised keys with no letters or digits left, such
// as the "_" that every non-ASCII header collapses to.
func meaningfulKey(k string) bool {
	return strings.Trim(k, "_") != ""
}
