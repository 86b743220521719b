// =============================================================================
// rackport - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (rackport)
//   ├── portCmd (rackport port)
//   ├── validateCmd (rackport validate)
//   └── versionCmd (rackport version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Each
//   subcommand loads the settings file and builds its logger through
//   setup(), so `version` works without a settings file.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/rackport/internal/config"
	"github.com/ginjaninja78/rackport/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the settings file.
var cfgFile string

// verbose forces trace level logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "rackport",
	Short: "rackport - Port rack layout sheets into a standard format workbook",
	Long: `rackport reads a source workbook of rack layout sheets and produces an
output workbook built from a standard format workbook.

For each source sheet it:
  - Detects the rack type (6U or 14U) from a discriminator cell
  - Clones the matching template sheet under the source sheet's name
  - Copies the configured cells, truncating dates and stripping replace words
  - Writes the host name next to each device found in the cable workbook

Example Usage:
  rackport port --source in.xlsx --format fmt.xlsx --cable cable.xlsx --output out.xlsx
  rackport validate --config ./settings.toml
  rackport validate --cable cable.xlsx -v`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
// SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the settings file (.yaml, .yml or .toml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Log at trace level regardless of the settings file",
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// setup loads the settings file and builds the logger. The caller must
// close the returned closer.
func setup() (*config.Config, *logrus.Entry, io.Closer, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Log, verbose)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	log := logrus.NewEntry(logger)
	log.WithField("config", cfgFile).Debug("configuration loaded")
	return cfg, log, closer, nil
}
