// =============================================================================
// Order Document Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the orderdoc CLI application. It
// initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   orderdoc wholesale order|receipt   - Vendor A order page and card receipt
//   orderdoc payment order|card|extract - Vendor C option splice and card slip
//   orderdoc furniture split|catalog   - Vendor B order sheet conversion
//   orderdoc history list|inputs       - Job history and saved inputs
//   orderdoc version                   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//   - templates/     : Contains the vendor HTML templates and the catalog
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/orderdoc/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
