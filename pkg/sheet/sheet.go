package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/flaboy/aira-catalog/pkg/errors"
)

// Table is an in-memory view of sheet 1 of an XLSX workbook: a header row
// with named columns and the data rows below it. Column lookup goes
// through an index map built once on open, not by scanning header cells
// per access.
type Table struct {
	sheetName string
	header    []string
	index     map[string]int
	rows      []row
}

type row struct {
	num   int // 1-based sheet row number
	cells []string
}

const maxEmptyRows = 10

// Open loads the first sheet of the workbook at path. Fully empty rows
// are dropped; after ten consecutive empty rows the rest of the sheet is
// ignored, matching how hand-edited workbooks trail off.
func Open(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrWorkbookOpen, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	raw, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrWorkbookOpen, err)
	}
	if len(raw) == 0 {
		return nil, errors.ErrWorkbookEmpty
	}

	t := &Table{sheetName: sheetName}
	t.setHeader(raw[0])

	emptyCount := 0
	for i := 1; i < len(raw); i++ {
		if isEmptyRow(raw[i]) {
			emptyCount++
			if emptyCount >= maxEmptyRows {
				break
			}
			continue
		}
		emptyCount = 0
		cells := make([]string, len(t.header))
		copy(cells, raw[i])
		t.rows = append(t.rows, row{num: i + 1, cells: cells})
	}
	return t, nil
}

// New creates an empty table with the given header, for export.
func New(columns []string) *Table {
	t := &Table{sheetName: "Sheet1"}
	t.setHeader(columns)
	return t
}

func (t *Table) setHeader(header []string) {
	t.header = make([]string, len(header))
	t.index = make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		t.header[i] = name
		if _, dup := t.index[name]; !dup && name != "" {
			t.index[name] = i
		}
	}
}

// RequireColumns checks that every named column exists, reporting all
// absent names in one StructureError rather than just the first.
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.Newf(errors.StructureError,
			"missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// EnsureColumns appends any absent columns after the existing ones.
// Existing columns are never reordered.
func (t *Table) EnsureColumns(names ...string) {
	for _, name := range names {
		if _, ok := t.index[name]; ok {
			continue
		}
		t.index[name] = len(t.header)
		t.header = append(t.header, name)
	}
}

func (t *Table) Len() int { return len(t.rows) }

// RowNumber returns the 1-based sheet row number of data row i.
func (t *Table) RowNumber(i int) int { return t.rows[i].num }

func (t *Table) Get(i int, column string) string {
	ci, ok := t.index[column]
	if !ok || ci >= len(t.rows[i].cells) {
		return ""
	}
	return t.rows[i].cells[ci]
}

func (t *Table) Set(i int, column, value string) {
	ci, ok := t.index[column]
	if !ok {
		return
	}
	for ci >= len(t.rows[i].cells) {
		t.rows[i].cells = append(t.rows[i].cells, "")
	}
	t.rows[i].cells[ci] = value
}

// Cells returns data row i keyed by column name.
func (t *Table) Cells(i int) map[string]string {
	out := make(map[string]string, len(t.header))
	for _, name := range t.header {
		out[name] = t.Get(i, name)
	}
	return out
}

// Append adds a row from column-keyed cells.
func (t *Table) Append(cells map[string]string) {
	r := row{num: len(t.rows) + 2, cells: make([]string, len(t.header))}
	for name, value := range cells {
		if ci, ok := t.index[name]; ok {
			r.cells[ci] = value
		}
	}
	t.rows = append(t.rows, r)
}

// Save writes the table as a fresh single-sheet workbook at path.
func (t *Table) Save(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if t.sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", t.sheetName); err != nil {
			return err
		}
	}

	if err := t.writeRow(f, 1, t.header); err != nil {
		return err
	}
	for i, r := range t.rows {
		if err := t.writeRow(f, i+2, r.cells); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func (t *Table) writeRow(f *excelize.File, num int, cells []string) error {
	for ci, value := range cells {
		cell, err := excelize.CoordinatesToCellName(ci+1, num)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(t.sheetName, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func isEmptyRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
