// Package roster parses uploaded client workbooks into an in-memory table
// and derives the list of selectable clients from the detected name columns.
package roster

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyWorkbook means the first sheet has no data rows.
	ErrEmptyWorkbook = errors.New("workbook has no data rows")
	// ErrNoNameColumns means no header pair matching first/last name was found.
	ErrNoNameColumns = errors.New("no first/last name columns detected")
)

// ClientEntry identifies one selectable client and the data row it came from.
type ClientEntry struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	RowIndex  int    `json:"row_index"`
}

// Table holds the parsed workbook: the header row, every data row, and the
// derived client roster. Row indexes are zero-based over data rows only.
type Table struct {
	headers []string
	rows    [][]string
	Clients []ClientEntry
}

// Load parses the first sheet of an xlsx/xls workbook. The first row is the
// header row; a data row joins the roster only if both detected name cells
// are non-empty after trimming.
func Load(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyWorkbook
	}

	t := &Table{headers: rows[0], rows: rows[1:]}

	firstCol, lastCol := detectNameColumns(t.headers)
	if firstCol < 0 || lastCol < 0 {
		return nil, fmt.Errorf("%w (headers: %s)", ErrNoNameColumns, strings.Join(t.headers, ", "))
	}

	for i, row := range t.rows {
		first := strings.TrimSpace(cellAt(row, firstCol))
		last := strings.TrimSpace(cellAt(row, lastCol))
		if first == "" || last == "" {
			continue
		}
		t.Clients = append(t.Clients, ClientEntry{
			FirstName: first,
			LastName:  last,
			FullName:  first + " " + last,
			RowIndex:  i,
		})
	}
	return t, nil
}

// detectNameColumns returns the first header index containing both "first"
// and "name" (case-insensitive), and likewise for "last"+"name".
func detectNameColumns(headers []string) (firstCol, lastCol int) {
	firstCol, lastCol = -1, -1
	for i, h := range headers {
		l := strings.ToLower(h)
		if firstCol < 0 && strings.Contains(l, "first") && strings.Contains(l, "name") {
			firstCol = i
		}
		if lastCol < 0 && strings.Contains(l, "last") && strings.Contains(l, "name") {
			lastCol = i
		}
	}
	return firstCol, lastCol
}

// Row returns the full data row at index with every cell keyed by its
// normalized header. Cells beyond the row's width come back as "".
func (t *Table) Row(index int) (map[string]string, error) {
	if index < 0 || index >= len(t.rows) {
		return nil, fmt.Errorf("row index %d out of range (%d rows)", index, len(t.rows))
	}
	row := t.rows[index]
	out := make(map[string]string, len(t.headers))
	for j, h := range t.headers {
		out[NormalizeKey(h)] = cellAt(row, j)
	}
	return out, nil
}

// FindClient looks up a client by case-insensitive exact name match. When
// rowIndex is non-nil it must match too, which disambiguates duplicate
// names; otherwise the first match wins.
func (t *Table) FindClient(first, last string, rowIndex *int) (ClientEntry, bool) {
	for _, c := range t.Clients {
		if !strings.EqualFold(c.FirstName, first) || !strings.EqualFold(c.LastName, last) {
			continue
		}
		if rowIndex != nil && c.RowIndex != *rowIndex {
			continue
		}
		return c, true
	}
	return ClientEntry{}, false
}

// NormalizeKey lowercases and trims a column header and replaces spaces and
// slashes with underscores. Idempotent.
func NormalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, " ", "_")
	k = strings.ReplaceAll(k, "/", "_")
	return k
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
