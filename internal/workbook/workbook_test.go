package workbook

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// saveFixture writes f into a temp dir and reopens it through Open.
func saveFixture(t *testing.T, f *excelize.File) *Workbook {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	f.Close()

	wb, err := Open(path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestValueKinds(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC))
	f.SetCellValue("Sheet1", "A2", "rack-01")
	f.SetCellValue("Sheet1", "A3", 42)
	wb := saveFixture(t, f)

	v, err := wb.Value("Sheet1", "A1")
	if err != nil {
		t.Fatalf("read A1: %v", err)
	}
	if v.Kind != KindDate {
		t.Fatalf("expected date, got %s", v.Kind)
	}
	if v.Time.Year() != 2024 || v.Time.Month() != time.March || v.Time.Day() != 5 || v.Time.Hour() != 14 {
		t.Fatalf("unexpected time: %v", v.Time)
	}

	v, err = wb.Value("Sheet1", "A2")
	if err != nil {
		t.Fatalf("read A2: %v", err)
	}
	if v.Kind != KindText || v.Text != "rack-01" {
		t.Fatalf("expected text rack-01, got %+v", v)
	}

	v, err = wb.Value("Sheet1", "A3")
	if err != nil {
		t.Fatalf("read A3: %v", err)
	}
	if v.Kind != KindText || v.Text != "42" {
		t.Fatalf("expected plain number as text, got %+v", v)
	}

	v, err = wb.Value("Sheet1", "Z99")
	if err != nil {
		t.Fatalf("read Z99: %v", err)
	}
	if v.Kind != KindEmpty {
		t.Fatalf("expected empty, got %s", v.Kind)
	}
}

func TestSetDateRoundTrip(t *testing.T) {
	wb := saveFixture(t, excelize.NewFile())

	day := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	if err := wb.SetDate("Sheet1", "B2", day); err != nil {
		t.Fatalf("set date: %v", err)
	}
	v, err := wb.Value("Sheet1", "B2")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if v.Kind != KindDate {
		t.Fatalf("expected date kind, got %s", v.Kind)
	}
	if !v.Time.Equal(day) {
		t.Fatalf("expected %v, got %v", day, v.Time)
	}
}

func TestCloneSheet(t *testing.T) {
	f := excelize.NewFile()
	f.NewSheet("SixUnit")
	f.SetCellValue("SixUnit", "A1", "header")
	wb := saveFixture(t, f)

	if err := wb.CloneSheet("SixUnit", "rack-a"); err != nil {
		t.Fatalf("clone: %v", err)
	}
	got, err := wb.Text("rack-a", "A1")
	if err != nil {
		t.Fatalf("read clone: %v", err)
	}
	if got != "header" {
		t.Fatalf("expected template content in clone, got %q", got)
	}

	if err := wb.SetGridlines("rack-a", false); err != nil {
		t.Fatalf("hide gridlines: %v", err)
	}
	if show, err := wb.Gridlines("rack-a"); err != nil || show {
		t.Fatalf("expected gridlines hidden, got %v (%v)", show, err)
	}

	if err := wb.CloneSheet("SixUnit", "rack-a"); !errors.Is(err, ErrSheetExists) {
		t.Fatalf("expected ErrSheetExists, got %v", err)
	}
	if err := wb.CloneSheet("NoSuch", "rack-b"); !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestDeleteSheet(t *testing.T) {
	f := excelize.NewFile()
	f.NewSheet("FourteenUnit")
	wb := saveFixture(t, f)

	if err := wb.DeleteSheet("FourteenUnit"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if wb.HasSheet("FourteenUnit") {
		t.Fatalf("expected sheet removed")
	}
	var se *SheetError
	if err := wb.DeleteSheet("FourteenUnit"); !errors.As(err, &se) || !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("expected SheetError wrapping ErrSheetNotFound, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	var we *WorkbookError
	if !errors.As(err, &we) || we.Op != "open" {
		t.Fatalf("expected open WorkbookError, got %v", err)
	}
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"yyyy/mm/dd", true},
		{"[$-409]d-mmm-yy", true},
		{"yyyy/m/d h:mm", true},
		{"mmm", true},
		{"hh:mm", false},
		{"h:mm:ss AM/PM", false},
		{"mm:ss", false},
		{"[h]:mm:ss", false},
		{"0.00", false},
		{"#,##0", false},
		{"General", false},
		{`"day "0`, false},
		{`[Red]0.00`, false},
		{`0\d`, false},
	}
	for _, tt := range tests {
		if got := isDateFormatCode(tt.code); got != tt.want {
			t.Errorf("isDateFormatCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
