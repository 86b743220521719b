// =============================================================================
// rackport - Workbook Access
// =============================================================================
//
// This module wraps excelize with the handful of operations the porting
// pipeline needs:
//   - open / save / close a workbook
//   - enumerate sheets and their used rows
//   - read a cell as a typed value (date or text)
//   - write text or a date
//   - clone a sheet, hide gridlines, delete a sheet
//
// Every handle returned by Open must be closed by the caller, usually with
// a deferred Close.
//
// =============================================================================

package workbook

import (
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is wrapped by SheetError when a named sheet is missing.
var ErrSheetNotFound = errors.New("worksheet not found")

// ErrSheetExists is wrapped by SheetError when a clone target already exists.
var ErrSheetExists = errors.New("worksheet already exists")

// =============================================================================
// ERRORS
// =============================================================================

// WorkbookError reports a failure on the workbook file itself.
type WorkbookError struct {
	Op   string
	Path string
	Err  error
}

func (e *WorkbookError) Error() string {
	return fmt.Sprintf("workbook %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WorkbookError) Unwrap() error { return e.Err }

// SheetError reports a failure on a sheet or one of its cells.
type SheetError struct {
	Op    string
	Sheet string
	Cell  string
	Err   error
}

func (e *SheetError) Error() string {
	if e.Cell != "" {
		return fmt.Sprintf("%s %s!%s: %v", e.Op, e.Sheet, e.Cell, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error { return e.Err }

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an open spreadsheet file.
type Workbook struct {
	file      *excelize.File
	path      string
	date1904  bool
	dateStyle int
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &WorkbookError{Op: "open", Path: path, Err: err}
	}
	return wrap(f, path), nil
}

func wrap(f *excelize.File, path string) *Workbook {
	wb := &Workbook{file: f, path: path}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb
}

// Path returns the file the workbook was opened from.
func (w *Workbook) Path() string { return w.path }

// Close releases the workbook.
func (w *Workbook) Close() error {
	if err := w.file.Close(); err != nil {
		return &WorkbookError{Op: "close", Path: w.path, Err: err}
	}
	return nil
}

// Save writes the workbook back to the path it was opened from.
func (w *Workbook) Save() error {
	if err := w.file.Save(); err != nil {
		return &WorkbookError{Op: "save", Path: w.path, Err: err}
	}
	return nil
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// HasSheet reports whether a sheet with this name exists.
func (w *Workbook) HasSheet(name string) bool {
	idx, err := w.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// Rows returns the formatted cell text of every row up to the last used one.
// Row i of the result is sheet row i+1; short rows omit trailing empty cells.
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, &SheetError{Op: "read rows", Sheet: sheet, Err: err}
	}
	return rows, nil
}

// =============================================================================
// CELL ACCESS
// =============================================================================

// Text returns the formatted text of a cell. An empty cell is "".
func (w *Workbook) Text(sheet, cell string) (string, error) {
	v, err := w.file.GetCellValue(sheet, cell)
	if err != nil {
		return "", &SheetError{Op: "read", Sheet: sheet, Cell: cell, Err: err}
	}
	return v, nil
}

// IsEmpty reports whether a cell holds no value.
func (w *Workbook) IsEmpty(sheet, cell string) (bool, error) {
	v, err := w.file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return false, &SheetError{Op: "read", Sheet: sheet, Cell: cell, Err: err}
	}
	return v == "", nil
}

// Value reads a cell as a typed value.
func (w *Workbook) Value(sheet, cell string) (Value, error) {
	raw, err := w.file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return Value{}, &SheetError{Op: "read", Sheet: sheet, Cell: cell, Err: err}
	}
	if raw == "" {
		return Value{Kind: KindEmpty}, nil
	}

	if t, ok, err := w.dateValue(sheet, cell, raw); err != nil {
		return Value{}, &SheetError{Op: "read", Sheet: sheet, Cell: cell, Err: err}
	} else if ok {
		return Value{Kind: KindDate, Time: t}, nil
	}

	text, err := w.Text(sheet, cell)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindText, Text: text}, nil
}

// SetText writes a string value.
func (w *Workbook) SetText(sheet, cell, text string) error {
	if err := w.file.SetCellStr(sheet, cell, text); err != nil {
		return &SheetError{Op: "write", Sheet: sheet, Cell: cell, Err: err}
	}
	return nil
}

// SetDate writes a date value. A cell without its own style gets a
// date-only number format.
func (w *Workbook) SetDate(sheet, cell string, t time.Time) error {
	style, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		return &SheetError{Op: "write", Sheet: sheet, Cell: cell, Err: err}
	}
	if style == 0 {
		if w.dateStyle == 0 {
			if w.dateStyle, err = w.file.NewStyle(&excelize.Style{NumFmt: 14}); err != nil {
				return &SheetError{Op: "write", Sheet: sheet, Cell: cell, Err: err}
			}
		}
		if err := w.file.SetCellStyle(sheet, cell, cell, w.dateStyle); err != nil {
			return &SheetError{Op: "write", Sheet: sheet, Cell: cell, Err: err}
		}
	}
	if err := w.file.SetCellValue(sheet, cell, t); err != nil {
		return &SheetError{Op: "write", Sheet: sheet, Cell: cell, Err: err}
	}
	return nil
}

// =============================================================================
// SHEET OPERATIONS
// =============================================================================

// CloneSheet copies the template sheet into a new sheet called name.
func (w *Workbook) CloneSheet(template, name string) error {
	src, err := w.file.GetSheetIndex(template)
	if err != nil {
		return &SheetError{Op: "clone", Sheet: template, Err: err}
	}
	if src < 0 {
		return &SheetError{Op: "clone", Sheet: template, Err: ErrSheetNotFound}
	}
	if w.HasSheet(name) {
		return &SheetError{Op: "clone", Sheet: name, Err: ErrSheetExists}
	}

	dst, err := w.file.NewSheet(name)
	if err != nil {
		return &SheetError{Op: "clone", Sheet: name, Err: err}
	}
	if err := w.file.CopySheet(src, dst); err != nil {
		return &SheetError{Op: "clone", Sheet: name, Err: err}
	}
	return nil
}

// SetGridlines shows or hides the gridlines of a sheet.
func (w *Workbook) SetGridlines(sheet string, show bool) error {
	if err := w.file.SetSheetView(sheet, 0, &excelize.ViewOptions{ShowGridLines: &show}); err != nil {
		return &SheetError{Op: "set view", Sheet: sheet, Err: err}
	}
	return nil
}

// Gridlines reports whether a sheet shows its gridlines.
func (w *Workbook) Gridlines(sheet string) (bool, error) {
	opts, err := w.file.GetSheetView(sheet, 0)
	if err != nil {
		return false, &SheetError{Op: "get view", Sheet: sheet, Err: err}
	}
	return opts.ShowGridLines == nil || *opts.ShowGridLines, nil
}

// DeleteSheet removes a sheet. A missing sheet is an error.
func (w *Workbook) DeleteSheet(name string) error {
	if !w.HasSheet(name) {
		return &SheetError{Op: "delete", Sheet: name, Err: ErrSheetNotFound}
	}
	if err := w.file.DeleteSheet(name); err != nil {
		return &SheetError{Op: "delete", Sheet: name, Err: err}
	}
	return nil
}
