// =============================================================================
// rackport - Cable Index Builder
// =============================================================================
//
// This module scans the cable reference workbook and builds the index used
// to turn device names into host names.
//
// SHEET STRUCTURE:
//   Every sheet is scanned. Column positions come from configuration and
//   are 1-based (A=1).
//
//   | Rack name  | Device name | Device number | ... | Host name |
//   |------------|-------------|---------------|-----|-----------|
//   | R01-A      | SW          | 01            |     | sw01-host |
//   | R01-A      | SV          | 02            |     | sv02-host |
//   | X99        | SW          | 03            |     | ignored   |
//
//   A row is indexed only when its rack name starts with the configured
//   prefix. The key is device name and device number joined with no
//   separator ("SW01"). The first row with a given key wins.
//
// SPECIAL DEVICE:
//   After scanning, one configured record is inserted unconditionally and
//   overrides any scanned row with the same key.
//
// =============================================================================

package cable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/rackport/internal/config"
	"github.com/ginjaninja78/rackport/internal/types"
	"github.com/ginjaninja78/rackport/internal/workbook"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// COLUMN CONFIGURATION
// =============================================================================

// Columns defines which 1-based columns hold which cable field.
type Columns struct {
	RackName     int
	DeviceName   int
	DeviceNumber int
	HostName     int
}

func (c Columns) validate() error {
	for name, v := range map[string]int{
		"rack name":     c.RackName,
		"device name":   c.DeviceName,
		"device number": c.DeviceNumber,
		"host name":     c.HostName,
	} {
		if v < 1 {
			return fmt.Errorf("%s column must be 1-based, got %d", name, v)
		}
	}
	return nil
}

// =============================================================================
// BUILD STATISTICS
// =============================================================================

// Stats counts what happened to the scanned rows.
type Stats struct {
	Sheets     int
	Rows       int
	Indexed    int
	Empty      int
	Filtered   int
	Duplicates int

	// SpecialOverride is true when the special device replaced a scanned row.
	SpecialOverride bool
}

// =============================================================================
// BUILDER
// =============================================================================

// Builder turns a cable workbook into a CableIndex.
type Builder struct {
	Columns    Columns
	RackPrefix string
	Special    types.CableRecord
	Log        *logrus.Entry
}

// NewBuilder creates a Builder from the cable settings.
func NewBuilder(p config.Porting, special types.CableRecord, log *logrus.Entry) *Builder {
	return &Builder{
		Columns: Columns{
			RackName:     p.CableRackNameColumn,
			DeviceName:   p.CableDeviceNameColumn,
			DeviceNumber: p.CableDeviceNumberColumn,
			HostName:     p.CableHostNameColumn,
		},
		RackPrefix: p.CableRackNamePrefix,
		Special:    special,
		Log:        log,
	}
}

// Build scans every sheet of wb.
func (b *Builder) Build(wb *workbook.Workbook) (types.CableIndex, Stats, error) {
	var stats Stats
	if err := b.Columns.validate(); err != nil {
		return nil, stats, err
	}

	index := types.CableIndex{}
	for _, sheet := range wb.SheetNames() {
		rows, err := wb.Rows(sheet)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to scan cable sheet %q: %w", sheet, err)
		}
		stats.Sheets++
		b.scanSheet(sheet, rows, index, &stats)
	}

	b.addSpecial(index, &stats)

	b.Log.WithFields(logrus.Fields{
		"sheets":     stats.Sheets,
		"rows":       stats.Rows,
		"indexed":    stats.Indexed,
		"empty":      stats.Empty,
		"filtered":   stats.Filtered,
		"duplicates": stats.Duplicates,
	}).Info("cable index built")

	return index, stats, nil
}

// scanSheet indexes the rows of one sheet. rows[i] is sheet row i+1.
func (b *Builder) scanSheet(sheet string, rows [][]string, index types.CableIndex, stats *Stats) {
	for i, row := range rows {
		r := i + 1
		stats.Rows++
		log := b.Log.WithFields(logrus.Fields{"sheet": sheet, "row": r})

		rack := cell(row, b.Columns.RackName)
		if rack == "" {
			stats.Empty++
			log.Trace("cable row skipped: empty rack name")
			continue
		}
		if !strings.HasPrefix(rack, b.RackPrefix) {
			stats.Filtered++
			log.WithField("rack", rack).Trace("cable row skipped: rack name does not match prefix")
			continue
		}

		rec := types.CableRecord{
			RackName:            rack,
			DeviceNameAndNumber: cell(row, b.Columns.DeviceName) + cell(row, b.Columns.DeviceNumber),
			HostName:            cell(row, b.Columns.HostName),
		}
		if _, exists := index[rec.DeviceNameAndNumber]; exists {
			stats.Duplicates++
			log.WithFields(logrus.Fields{
				"rack":   rack,
				"device": rec.DeviceNameAndNumber,
			}).Trace("cable row skipped: duplicate device")
			continue
		}
		index[rec.DeviceNameAndNumber] = rec
		stats.Indexed++
	}
}

func (b *Builder) addSpecial(index types.CableIndex, stats *Stats) {
	key := b.Special.DeviceNameAndNumber
	if prev, exists := index[key]; exists {
		stats.SpecialOverride = true
		b.Log.WithFields(logrus.Fields{
			"device":        key,
			"previous_host": prev.HostName,
			"host":          b.Special.HostName,
		}).Debug("special device overrides scanned row")
	}
	index[key] = b.Special
}

// cell returns the text at a 1-based column, "" past the end of the row.
func cell(row []string, col int) string {
	if col-1 < len(row) {
		return row[col-1]
	}
	return ""
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// Dump writes every index entry at trace level, sorted by key.
func Dump(index types.CableIndex, log *logrus.Entry) {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	log.Trace("== start print ==")
	for _, k := range keys {
		rec := index[k]
		log.WithFields(logrus.Fields{
			"device": rec.DeviceNameAndNumber,
			"rack":   rec.RackName,
			"host":   rec.HostName,
		}).Tracef("cable %s", k)
	}
	log.Trace("== end print ==")
}
