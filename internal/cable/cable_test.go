package cable

import (
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/rackport/internal/config"
	"github.com/ginjaninja78/rackport/internal/types"
	"github.com/ginjaninja78/rackport/internal/workbook"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/xuri/excelize/v2"
)

// openCable writes rows (rack, device, number, host) to Sheet1 plus extra
// sheets, saves, and reopens the file.
func openCable(t *testing.T, sheets map[string][][]interface{}) *workbook.Workbook {
	t.Helper()
	f := excelize.NewFile()
	for name, rows := range sheets {
		if name != "Sheet1" {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "cable.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	f.Close()

	wb, err := workbook.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

func newBuilder(special types.CableRecord) (*Builder, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	return &Builder{
		Columns:    Columns{RackName: 1, DeviceName: 2, DeviceNumber: 3, HostName: 4},
		RackPrefix: "R",
		Special:    special,
		Log:        logrus.NewEntry(logger),
	}, hook
}

var special = types.CableRecord{RackName: "RX", DeviceNameAndNumber: "SP01", HostName: "special-host"}

func TestBuildFiltersAndIndexes(t *testing.T) {
	wb := openCable(t, map[string][][]interface{}{
		"Sheet1": {
			{"rack", "device", "no", "host"},
			{"R01", "SW", "01", "sw01-host"},
			{"", "SW", "02", "sw02-host"},
			{"X01", "SW", "03", "sw03-host"},
			{"R02", "SV", 4, "sv4-host"},
		},
	})
	b, _ := newBuilder(special)

	index, stats, err := b.Build(wb)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if rec, ok := index["SW01"]; !ok || rec.HostName != "sw01-host" || rec.RackName != "R01" {
		t.Fatalf("expected SW01 indexed, got %+v (%v)", rec, ok)
	}
	if _, ok := index["SW02"]; ok {
		t.Fatalf("row with empty rack name must not be indexed")
	}
	if _, ok := index["SW03"]; ok {
		t.Fatalf("row with non-matching rack prefix must not be indexed")
	}
	if _, ok := index["deviceno"]; ok {
		t.Fatalf("header row must be filtered by prefix")
	}
	if host, ok := index.HostName("SV4"); !ok || host != "sv4-host" {
		t.Fatalf("expected numeric device number concatenated verbatim, got %q (%v)", host, ok)
	}
	if stats.Empty != 1 || stats.Filtered != 2 || stats.Indexed != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestBuildFirstDuplicateWins(t *testing.T) {
	wb := openCable(t, map[string][][]interface{}{
		"Sheet1": {
			{"R01", "SW", "01", "first"},
			{"R02", "SW", "01", "second"},
		},
		"Floor2": {
			{"R03", "SW", "01", "third"},
		},
	})
	b, hook := newBuilder(special)

	index, stats, err := b.Build(wb)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if index["SW01"].HostName != "first" {
		t.Fatalf("expected first scanned row to win, got %q", index["SW01"].HostName)
	}
	if stats.Duplicates != 2 {
		t.Fatalf("expected 2 duplicates, got %d", stats.Duplicates)
	}

	var traced int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.TraceLevel && e.Message == "cable row skipped: duplicate device" {
			traced++
		}
	}
	if traced != 2 {
		t.Fatalf("expected a trace diagnostic per duplicate, got %d", traced)
	}
}

func TestBuildSpecialDeviceAlwaysPresent(t *testing.T) {
	wb := openCable(t, map[string][][]interface{}{
		"Sheet1": {{"X", "", "", ""}},
	})
	b, _ := newBuilder(special)

	index, _, err := b.Build(wb)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if index["SP01"] != special {
		t.Fatalf("expected special device, got %+v", index["SP01"])
	}
}

func TestBuildSpecialDeviceOverrides(t *testing.T) {
	wb := openCable(t, map[string][][]interface{}{
		"Sheet1": {{"R01", "SP", "01", "scanned-host"}},
	})
	b, _ := newBuilder(special)

	index, stats, err := b.Build(wb)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if index["SP01"].HostName != "special-host" {
		t.Fatalf("expected special device to override scanned row, got %q", index["SP01"].HostName)
	}
	if !stats.SpecialOverride {
		t.Fatalf("expected override recorded")
	}
}

func TestBuildRejectsZeroColumn(t *testing.T) {
	wb := openCable(t, map[string][][]interface{}{"Sheet1": {}})
	b, _ := newBuilder(special)
	b.Columns.HostName = 0
	if _, _, err := b.Build(wb); err == nil {
		t.Fatalf("expected error for zero column")
	}
}

func TestNewBuilderFromSettings(t *testing.T) {
	p := config.Porting{
		CableRackNamePrefix:     "R",
		CableRackNameColumn:     1,
		CableDeviceNameColumn:   2,
		CableDeviceNumberColumn: 3,
		CableHostNameColumn:     4,
	}
	logger, _ := test.NewNullLogger()
	b := NewBuilder(p, special, logrus.NewEntry(logger))
	if b.Columns != (Columns{RackName: 1, DeviceName: 2, DeviceNumber: 3, HostName: 4}) || b.RackPrefix != "R" || b.Special != special {
		t.Fatalf("unexpected builder: %+v", b)
	}
}
