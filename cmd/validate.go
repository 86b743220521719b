// =============================================================================
// rackport - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the settings file
// without touching any workbook other than the optional cable list.
//
// COMMAND USAGE:
//   rackport validate [--cable C]
//
// Every parsed table is written to the log at trace level. With --cable the
// cable index is also built and dumped, which shows how the rack prefix and
// column settings select rows.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/rackport/internal/cable"
	"github.com/ginjaninja78/rackport/internal/tables"
	"github.com/ginjaninja78/rackport/internal/types"
	"github.com/ginjaninja78/rackport/internal/workbook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var validateCablePath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse the settings file and print its tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateCablePath, "cable", "", "Also build and dump the cable index from this workbook")
}

func runValidate(cmd *cobra.Command) error {
	cfg, logger, closer, err := setup()
	if err != nil {
		return err
	}
	defer closer.Close()

	t, err := tables.Build(cfg.Porting)
	if err != nil {
		logger.WithError(err).Error("invalid porting tables")
		return err
	}
	t.Dump(logger)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration OK: %s\n", cfgFile)
	for _, typ := range types.KnownTypes {
		fmt.Fprintf(out, "  %-4s template %-16q cells %d, overlays %d\n",
			typ, t.SheetNames[typ], len(t.Definitions[typ]), len(t.Overlays[typ]))
	}
	fmt.Fprintf(out, "  words %d, replace words %d\n", len(t.Words), len(t.ReplaceWords))

	if validateCablePath == "" {
		return nil
	}

	wb, err := workbook.Open(validateCablePath)
	if err != nil {
		return err
	}
	defer wb.Close()

	index, stats, err := cable.NewBuilder(cfg.Porting, t.Special, logger).Build(wb)
	if err != nil {
		return err
	}
	cable.Dump(index, logger)

	logger.WithFields(logrus.Fields{
		"sheets":     stats.Sheets,
		"rows":       stats.Rows,
		"indexed":    stats.Indexed,
		"duplicates": stats.Duplicates,
	}).Info("cable index validated")
	fmt.Fprintf(out, "Cable index OK: %d entries from %d rows (%d duplicates)\n", len(index), stats.Rows, stats.Duplicates)
	return nil
}
