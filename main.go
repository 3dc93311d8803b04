// =============================================================================
// OTM Order Generator - Main Entry Point
// =============================================================================
//
// USAGE:
//   ordergen generate          - Generate random sales or purchase orders
//   ordergen import <file>     - Build orders from a CSV or XLSX table
//   ordergen template <so|po>  - Write an import template
//   ordergen version           - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : document building, import, generation, submission
//   - pkg/       : file output utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/otm-order-generator/cmd"
)

func main() {
	cmd.Execute()
}
