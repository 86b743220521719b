// =============================================================================
// rackport - Main Entry Point
// =============================================================================
//
// USAGE:
//   rackport port      - Port a source workbook into the format workbook
//   rackport validate  - Validate the settings file without porting
//   rackport version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/      : CLI command definitions (Cobra)
//   - internal/ : porting logic, workbook access, configuration, logging
//   - pkg/      : shared file utilities
//
// =============================================================================

package main

import (
	_ "time/tzdata"

	"github.com/ginjaninja78/rackport/cmd"
)

func main() {
	cmd.Execute()
}
