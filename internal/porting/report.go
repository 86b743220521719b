package porting

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/rackport/internal/cable"
	"github.com/ginjaninja78/rackport/internal/types"
	"github.com/ginjaninja78/rackport/pkg/utils"
)

// =============================================================================
// SHEET OUTCOMES
// =============================================================================

// Status is the outcome of one source sheet.
type Status int

const (
	// StatusPorted means the sheet was cloned, filled and overlaid.
	StatusPorted Status = iota

	// StatusSkipped means the discriminator did not resolve to a known type.
	StatusSkipped

	// StatusFailed means a spreadsheet operation failed for this sheet.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPorted:
		return "ported"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// SheetOutcome records what happened to one source sheet.
type SheetOutcome struct {
	Sheet    string
	Word     string
	Type     types.TypeDiscriminator
	Template string
	Status   Status

	// Copied is the number of mapped cells written.
	Copied int

	// Overlaid is the number of host names written; OverlayMisses counts
	// device names that were not in the cable index.
	Overlaid      int
	OverlayMisses int

	Err error
}

// =============================================================================
// REPORT
// =============================================================================

// Report is the result of one porting run.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Paths    Paths
	Cable    cable.Stats
	Sheets   []SheetOutcome

	// Errors holds run-level failures that are not tied to one sheet.
	Errors []error
}

func newReport(paths Paths) *Report {
	return &Report{
		RunID:   utils.NewRunID(),
		Started: time.Now(),
		Paths:   paths,
	}
}

// Passed reports whether every sheet was ported or skipped and no run-level
// error occurred.
func (r *Report) Passed() bool {
	if len(r.Errors) > 0 {
		return false
	}
	return r.Count(StatusFailed) == 0
}

// Count returns the number of sheets with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Sheets {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Summary converts the report for utils.WriteSummaryLog.
func (r *Report) Summary() utils.ProcessingSummary {
	s := utils.ProcessingSummary{
		RunID:           r.RunID,
		StartTime:       r.Started,
		EndTime:         r.Finished,
		SourceFile:      r.Paths.Source,
		FormatFile:      r.Paths.Format,
		CableFile:       r.Paths.Cable,
		OutputFile:      r.Paths.Output,
		Passed:          r.Passed(),
		CableRows:       r.Cable.Rows,
		CableIndexed:    r.Cable.Indexed,
		CableDuplicates: r.Cable.Duplicates,
	}
	for _, o := range r.Sheets {
		sheet := utils.SheetSummary{
			Name:          o.Sheet,
			Type:          o.Type.String(),
			Status:        o.Status.String(),
			Copied:        o.Copied,
			Overlaid:      o.Overlaid,
			OverlayMisses: o.OverlayMisses,
		}
		if o.Err != nil {
			sheet.Error = o.Err.Error()
		}
		s.Sheets = append(s.Sheets, sheet)
	}
	for _, err := range r.Errors {
		s.Errors = append(s.Errors, err.Error())
	}
	return s
}
