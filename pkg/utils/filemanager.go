// =============================================================================
// rackport - File Manager Utility
// =============================================================================
//
// This module provides the file utilities used around a porting run:
//   - Existence checks for the input workbooks
//   - Atomic copy of the format workbook to the output path
//   - Run identifiers
//   - Processing summary file generation
//
// COPY STRATEGY:
//   The format workbook is copied to a temporary file in the destination
//   directory, synced, then renamed over the output path. A reader never
//   sees a half-written output file, and a failed copy leaves nothing behind.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE CHECKS
// =============================================================================

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// =============================================================================
// FILE COPY
// =============================================================================

// CopyFile copies src to dst atomically, replacing dst if it exists.
//
// RETURNS:
//   - An error if src cannot be read or dst cannot be written. On error dst
//     is left as it was before the call.
func CopyFile(src, dst string) (err error) {
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer sourceFile.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", dst, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, sourceFile); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to move copy into place at %s: %w", dst, err)
	}
	return nil
}

// =============================================================================
// RUN IDENTIFIERS
// =============================================================================

// NewRunID returns a random identifier for one porting run. It tags the log
// lines written during the run and the summary file of the run.
func NewRunID() string {
	return uuid.New().String()
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a porting run.
type ProcessingSummary struct {
	RunID      string
	StartTime  time.Time
	EndTime    time.Time
	SourceFile string
	FormatFile string
	CableFile  string
	OutputFile string
	Passed     bool

	CableRows       int
	CableIndexed    int
	CableDuplicates int

	Sheets []SheetSummary
	Errors []string
}

// SheetSummary describes the outcome for one source sheet.
type SheetSummary struct {
	Name          string
	Type          string
	Status        string
	Copied        int
	Overlaid      int
	OverlayMisses int
	Error         string
}

// WriteSummaryLog writes a processing summary to path.
func WriteSummaryLog(summary ProcessingSummary, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	result := "NG"
	if summary.Passed {
		result = "OK"
	}

	fmt.Fprintf(writer, "rackport - Porting Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Result:         %s\n\n"+
		"Files:\n"+
		"  Source:         %s\n"+
		"  Format:         %s\n"+
		"  Cable:          %s\n"+
		"  Output:         %s\n\n"+
		"Cable Index:\n"+
		"  Rows Scanned:   %d\n"+
		"  Indexed:        %d\n"+
		"  Duplicates:     %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		result,
		summary.SourceFile,
		summary.FormatFile,
		summary.CableFile,
		summary.OutputFile,
		summary.CableRows,
		summary.CableIndexed,
		summary.CableDuplicates)

	if len(summary.Sheets) > 0 {
		writer.WriteString("Sheets:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, s := range summary.Sheets {
			fmt.Fprintf(writer, "  Sheet:          %s\n", s.Name)
			fmt.Fprintf(writer, "  Type:           %s\n", s.Type)
			fmt.Fprintf(writer, "  Status:         %s\n", s.Status)
			fmt.Fprintf(writer, "  Cells Copied:   %d\n", s.Copied)
			fmt.Fprintf(writer, "  Host Names:     %d (misses %d)\n", s.Overlaid, s.OverlayMisses)
			if s.Error != "" {
				fmt.Fprintf(writer, "  Error:          %s\n", s.Error)
			}
			writer.WriteString("\n")
		}
	}

	if len(summary.Errors) > 0 {
		writer.WriteString("Errors:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, e := range summary.Errors {
			fmt.Fprintf(writer, "  %s\n", e)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary file: %w", err)
	}

	return nil
}
