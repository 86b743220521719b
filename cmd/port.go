// =============================================================================
// rackport - Port Command
// =============================================================================
//
// This file defines the 'port' command, which runs one porting pass.
//
// COMMAND USAGE:
//   rackport port --source S --format F --cable C --output O [--summary P]
//
// FLAGS:
//   --source   : Workbook of rack layout sheets to port
//   --format   : Workbook holding the 6U and 14U template sheets
//   --cable    : Cable list workbook used for host name lookups
//   --output   : Output path; an existing file is replaced
//   --summary  : Optional path of a text summary of the run
//
// EXIT STATUS:
//   0 when the run completed, whether or not every sheet passed.
//   1 when the run was aborted before the output was saved.
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ginjaninja78/rackport/internal/porting"
	"github.com/ginjaninja78/rackport/internal/tables"
	"github.com/ginjaninja78/rackport/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	sourcePath  string
	formatPath  string
	cablePath   string
	outputPath  string
	summaryPath string
)

// =============================================================================
// PORT COMMAND DEFINITION
// =============================================================================

var portCmd = &cobra.Command{
	Use:   "port",
	Short: "Port a source workbook into a copy of the format workbook",
	Long: `The port command copies the format workbook to the output path and adds
one sheet per recognised source sheet, built from the matching template.

Sheets whose discriminator is not configured are skipped. A failure on one
sheet is logged and the remaining sheets are still ported. The template
sheets are removed from the output before it is saved.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runPort(cmd)
	},
}

func init() {
	rootCmd.AddCommand(portCmd)

	portCmd.Flags().StringVar(&sourcePath, "source", "", "Source workbook")
	portCmd.Flags().StringVar(&formatPath, "format", "", "Format workbook with the template sheets")
	portCmd.Flags().StringVar(&cablePath, "cable", "", "Cable list workbook")
	portCmd.Flags().StringVar(&outputPath, "output", "", "Output workbook path")
	portCmd.Flags().StringVar(&summaryPath, "summary", "", "Write a text summary of the run to this path")

	for _, name := range []string{"source", "format", "cable", "output"} {
		portCmd.MarkFlagRequired(name)
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runPort(cmd *cobra.Command) error {
	cfg, logger, closer, err := setup()
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.WithField("version", Version).Infof("==== rackport %s ====", Version)

	// =========================================================================
	// STEP 1: BUILD TABLES
	// =========================================================================

	t, err := tables.Build(cfg.Porting)
	if err != nil {
		logger.WithError(err).Error("invalid porting tables")
		return err
	}
	t.Dump(logger)

	// =========================================================================
	// STEP 2: RUN
	// =========================================================================

	engine := porting.New(cfg.Porting, t, logger)
	report, runErr := engine.Run(cmd.Context(), porting.Paths{
		Source: sourcePath,
		Format: formatPath,
		Cable:  cablePath,
		Output: outputPath,
	})

	logger = logger.WithField("run", report.RunID)
	for _, err := range report.Errors {
		logger.WithError(err).Error("run error")
	}

	// =========================================================================
	// STEP 3: REPORT
	// =========================================================================

	if summaryPath != "" {
		if err := utils.WriteSummaryLog(report.Summary(), summaryPath); err != nil {
			logger.WithError(err).Warn("failed to write summary file")
		} else {
			logger.WithField("path", summaryPath).Info("summary written")
		}
	}

	printSummary(cmd, report)

	if report.Passed() && runErr == nil {
		logger.Info("all pass")
	} else {
		logger.WithFields(logrus.Fields{
			"failed_sheets": report.Count(porting.StatusFailed),
			"run_errors":    len(report.Errors),
		}).Warn("finished with errors")
	}
	logger.Infof("==== rackport %s finished ====", Version)

	return runErr
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	ngStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// printSummary writes the per-sheet outcome table to the command output.
func printSummary(cmd *cobra.Command, r *porting.Report) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render("=== rackport ==="))
	for _, o := range r.Sheets {
		mark := okStyle.Render("✓")
		switch o.Status {
		case porting.StatusSkipped:
			mark = dimStyle.Render("-")
		case porting.StatusFailed:
			mark = ngStyle.Render("✗")
		}
		line := fmt.Sprintf("  %s %-24s %-8s", mark, o.Sheet, o.Type)
		switch o.Status {
		case porting.StatusPorted:
			line += fmt.Sprintf(" cells %d, hosts %d (misses %d)", o.Copied, o.Overlaid, o.OverlayMisses)
		case porting.StatusSkipped:
			line += dimStyle.Render(fmt.Sprintf(" skipped (%q)", o.Word))
		case porting.StatusFailed:
			line += " " + o.Err.Error()
		}
		fmt.Fprintln(out, line)
	}
	for _, err := range r.Errors {
		fmt.Fprintf(out, "  %s %v\n", ngStyle.Render("✗"), err)
	}

	result := okStyle.Render("OK")
	if !r.Passed() {
		result = ngStyle.Render("NG")
	}
	fmt.Fprintf(out, "\nSheets:       %d (ported %d, skipped %d, failed %d)\n",
		len(r.Sheets), r.Count(porting.StatusPorted), r.Count(porting.StatusSkipped), r.Count(porting.StatusFailed))
	fmt.Fprintf(out, "Cable index:  %d rows, %d indexed, %d duplicates\n", r.Cable.Rows, r.Cable.Indexed, r.Cable.Duplicates)
	fmt.Fprintf(out, "Time elapsed: %s\n", r.Finished.Sub(r.Started).Round(time.Millisecond))
	fmt.Fprintf(out, "Result:       %s\n", result)
}
