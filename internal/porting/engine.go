// =============================================================================
// rackport - Porting Engine
// =============================================================================
//
// This module ports one source workbook into a copy of the format workbook.
//
// PORTING PIPELINE:
//   1. Check that the source, format and cable workbooks exist
//   2. Build the cable index from the cable workbook
//   3. Copy the format workbook to the output path and open the copy
//   4. For each source sheet:
//      a. Resolve its type from the discriminator cell
//      b. Clone the type's template sheet under the source sheet's name
//      c. Copy the mapped cells (dates truncated, replace words stripped)
//      d. Write host names next to device names found in the clone
//   5. Delete the template sheets
//   6. Save the output workbook
//
// FAILURES:
//   A missing input file or a failed copy aborts before anything is
//   written. A failure inside one sheet is recorded in the Report and the
//   remaining sheets are still processed. Lookup misses are only logged.
//
// =============================================================================

package porting

import (
	"context"
	"fmt"
	"time"

	"github.com/ginjaninja78/rackport/internal/cable"
	"github.com/ginjaninja78/rackport/internal/config"
	"github.com/ginjaninja78/rackport/internal/tables"
	"github.com/ginjaninja78/rackport/internal/types"
	"github.com/ginjaninja78/rackport/internal/workbook"
	"github.com/ginjaninja78/rackport/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Paths names the files of one run.
type Paths struct {
	Source string
	Format string
	Cable  string
	Output string
}

// PreconditionError reports a missing input workbook.
type PreconditionError struct {
	Role string
	Path string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s workbook not found: %s", e.Role, e.Path)
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine ports workbooks with a fixed set of tables.
type Engine struct {
	tables            *tables.Tables
	discriminatorCell string
	cable             *cable.Builder
	log               *logrus.Entry
}

// New creates an Engine from the porting settings and the tables parsed
// from them.
func New(cfg config.Porting, t *tables.Tables, log *logrus.Entry) *Engine {
	return &Engine{
		tables:            t,
		discriminatorCell: cfg.DiscriminatorCell,
		cable:             cable.NewBuilder(cfg, t.Special, log),
		log:               log,
	}
}

// Run executes the porting pipeline.
//
// RETURNS:
//   - The report of the run. It is never nil.
//   - An error when the run was aborted: a missing input, a failed copy,
//     an unreadable workbook, cancellation, or a failed save. Per-sheet
//     failures are not returned here; check Report.Passed.
func (e *Engine) Run(ctx context.Context, paths Paths) (*Report, error) {
	report := newReport(paths)
	log := e.log.WithField("run", report.RunID)
	defer func() { report.Finished = time.Now() }()

	log.WithFields(logrus.Fields{
		"source": paths.Source,
		"format": paths.Format,
		"cable":  paths.Cable,
		"output": paths.Output,
	}).Info("== start porting ==")

	if len(e.tables.ReplaceWords) == 0 {
		log.Debug("no replace words configured; copied text is written unchanged")
	}

	// =========================================================================
	// STEP 1: PRECONDITIONS
	// =========================================================================

	for _, in := range []struct{ role, path string }{
		{"source", paths.Source},
		{"format", paths.Format},
		{"cable", paths.Cable},
	} {
		if !utils.FileExists(in.path) {
			err := &PreconditionError{Role: in.role, Path: in.path}
			report.Errors = append(report.Errors, err)
			return report, err
		}
	}

	// =========================================================================
	// STEP 2: CABLE INDEX
	// =========================================================================

	index, err := e.buildCableIndex(paths.Cable, report, log)
	if err != nil {
		report.Errors = append(report.Errors, err)
		return report, err
	}

	// =========================================================================
	// STEP 3: OUTPUT COPY
	// =========================================================================

	if err := utils.CopyFile(paths.Format, paths.Output); err != nil {
		err = fmt.Errorf("failed to copy format workbook: %w", err)
		report.Errors = append(report.Errors, err)
		return report, err
	}

	out, err := workbook.Open(paths.Output)
	if err != nil {
		report.Errors = append(report.Errors, err)
		return report, err
	}
	defer closeWorkbook(out, log)

	src, err := workbook.Open(paths.Source)
	if err != nil {
		report.Errors = append(report.Errors, err)
		return report, err
	}
	defer closeWorkbook(src, log)

	// =========================================================================
	// STEP 4: PORT SHEETS
	// =========================================================================

	for _, sheet := range src.SheetNames() {
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, err)
			return report, err
		}
		outcome := e.portSheet(src, out, sheet, index, log)
		report.Sheets = append(report.Sheets, outcome)
	}

	// =========================================================================
	// STEP 5: REMOVE TEMPLATES
	// =========================================================================

	e.removeTemplates(out, report, log)

	// =========================================================================
	// STEP 6: SAVE
	// =========================================================================

	if err := out.Save(); err != nil {
		report.Errors = append(report.Errors, err)
		return report, err
	}

	log.WithFields(logrus.Fields{
		"ported":  report.Count(StatusPorted),
		"skipped": report.Count(StatusSkipped),
		"failed":  report.Count(StatusFailed),
	}).Info("== end porting ==")

	return report, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (e *Engine) buildCableIndex(path string, report *Report, log *logrus.Entry) (types.CableIndex, error) {
	wb, err := workbook.Open(path)
	if err != nil {
		return nil, err
	}
	defer closeWorkbook(wb, log)

	b := *e.cable
	b.Log = log
	index, stats, err := b.Build(wb)
	if err != nil {
		return nil, err
	}
	report.Cable = stats
	cable.Dump(index, log)
	return index, nil
}

// portSheet clones, fills and overlays the output sheet for one source sheet.
func (e *Engine) portSheet(src, out *workbook.Workbook, sheet string, index types.CableIndex, runLog *logrus.Entry) SheetOutcome {
	o := SheetOutcome{Sheet: sheet, Type: types.Unknown}
	log := runLog.WithField("sheet", sheet)

	word, err := src.Text(sheet, e.discriminatorCell)
	if err != nil {
		return e.fail(o, log, err)
	}
	o.Word = word
	o.Type = e.tables.Words.Resolve(word)
	log = log.WithField("type", o.Type)
	log.WithField("word", word).Trace("discriminator read")

	if o.Type == types.Unknown {
		o.Status = StatusSkipped
		log.WithField("word", word).Debug("sheet skipped: discriminator not registered")
		return o
	}

	template, ok := e.tables.SheetNames[o.Type]
	if !ok {
		return e.fail(o, log, fmt.Errorf("no template sheet configured for %s", o.Type))
	}
	o.Template = template

	if err := out.CloneSheet(template, sheet); err != nil {
		return e.fail(o, log, err)
	}
	if err := out.SetGridlines(sheet, false); err != nil {
		return e.fail(o, log, err)
	}
	log.WithField("template", template).Debug("template cloned")

	for _, m := range e.tables.Definitions[o.Type] {
		if err := e.copyCell(src, out, sheet, m, log); err != nil {
			return e.fail(o, log, err)
		}
		o.Copied++
	}

	for _, m := range e.tables.Overlays[o.Type] {
		hit, err := e.overlayHost(out, sheet, m, index, log)
		if err != nil {
			return e.fail(o, log, err)
		}
		switch hit {
		case overlayHit:
			o.Overlaid++
		case overlayMiss:
			o.OverlayMisses++
		}
	}

	o.Status = StatusPorted
	log.WithFields(logrus.Fields{
		"copied":   o.Copied,
		"overlaid": o.Overlaid,
		"misses":   o.OverlayMisses,
	}).Debug("sheet ported")
	return o
}

func (e *Engine) fail(o SheetOutcome, log *logrus.Entry, err error) SheetOutcome {
	o.Status = StatusFailed
	o.Err = err
	log.WithError(err).Error("sheet failed")
	return o
}

// copyCell copies one mapped cell from the source sheet to the clone.
func (e *Engine) copyCell(src, out *workbook.Workbook, sheet string, m types.CellMapping, log *logrus.Entry) error {
	v, err := src.Value(sheet, m.Source)
	if err != nil {
		return err
	}

	if v.Kind == workbook.KindDate {
		day := TruncateDate(v.Time)
		log.Tracef("cell %s date %s --> %s", m, v.Time.Format(time.RFC3339), day.Format("2006-01-02"))
		return out.SetDate(sheet, m.Dest, day)
	}

	text := StripWords(v.Text, e.tables.ReplaceWords)
	log.Tracef("cell %s %q --> %q", m, v.Text, text)
	return out.SetText(sheet, m.Dest, text)
}

type overlayResult int

const (
	overlaySkipped overlayResult = iota
	overlayHit
	overlayMiss
)

// overlayHost writes the host name for the device named at m.Source.
func (e *Engine) overlayHost(out *workbook.Workbook, sheet string, m types.CellMapping, index types.CableIndex, log *logrus.Entry) (overlayResult, error) {
	empty, err := out.IsEmpty(sheet, m.Source)
	if err != nil {
		return overlaySkipped, err
	}
	if empty {
		return overlaySkipped, nil
	}

	device, err := out.Text(sheet, m.Source)
	if err != nil {
		return overlaySkipped, err
	}
	host, ok := index.HostName(device)
	if !ok {
		log.WithField("device", device).Trace("device not in cable index")
		return overlayMiss, nil
	}

	log.Tracef("%s:%s add--> %s:%s", m.Source, device, m.Dest, host)
	if err := out.SetText(sheet, m.Dest, host); err != nil {
		return overlaySkipped, err
	}
	return overlayHit, nil
}

// removeTemplates deletes the template sheet of every known type.
func (e *Engine) removeTemplates(out *workbook.Workbook, report *Report, log *logrus.Entry) {
	for _, typ := range types.KnownTypes {
		name, ok := e.tables.SheetNames[typ]
		if !ok {
			err := fmt.Errorf("no template sheet configured for %s", typ)
			report.Errors = append(report.Errors, err)
			log.WithError(err).Error("template not removed")
			continue
		}
		if err := out.DeleteSheet(name); err != nil {
			report.Errors = append(report.Errors, err)
			log.WithError(err).Error("template not removed")
			continue
		}
		log.WithField("template", name).Debug("template removed")
	}
}

func closeWorkbook(wb *workbook.Workbook, log *logrus.Entry) {
	if err := wb.Close(); err != nil {
		log.WithError(err).WithField("path", wb.Path()).Warn("failed to close workbook")
	}
}
