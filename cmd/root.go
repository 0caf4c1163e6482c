// =============================================================================
// Order Document Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All vendor commands
// (wholesale, payment, furniture) and the history command are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (orderdoc)
//   ├── wholesaleCmd (orderdoc wholesale order|receipt)
//   ├── paymentCmd   (orderdoc payment order|card|extract)
//   ├── furnitureCmd (orderdoc furniture split|catalog)
//   ├── historyCmd   (orderdoc history list|delete|clear|inputs)
//   └── versionCmd   (orderdoc version)
//
// ENVIRONMENT:
//   Before any subcommand runs, the root command:
//   1. Loads the main configuration (defaults when config.yaml is absent)
//   2. Opens the logger (console plus the configured log file)
//   3. Loads the vendor templates
//   4. Opens the history store
//   5. Removes expired result files
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/orderdoc/internal/config"
	"github.com/ginjaninja78/orderdoc/internal/fieldrules"
	"github.com/ginjaninja78/orderdoc/internal/history"
	"github.com/ginjaninja78/orderdoc/internal/logging"
	"github.com/ginjaninja78/orderdoc/internal/templates"
	"github.com/ginjaninja78/orderdoc/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging when set to true.
var verbose bool

// env is the environment shared by the subcommands. It is populated by
// setupEnv and released by teardownEnv.
var env struct {
	cfg       *config.MainConfig
	log       logging.Logger
	logCloser io.Closer
	templates *templates.Set
	history   *history.Store
	files     *utils.FileManager
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "orderdoc",
	Short: "Order Document Generator - Rewrite vendor order pages, receipts and sheets",
	Long: `orderdoc rewrites vendor order pages, card receipts and order spreadsheets
by substituting field values into fixed templates.

Vendors:
  wholesale   B2B wholesale portal: order page and card receipt
  payment     Consumer payment platform: option splice, card slip, extraction
  furniture   Furniture retailer: order sheet row splitter

Example Usage:
  orderdoc wholesale order --fields order.yaml
  orderdoc payment card --html slip.html --fields card.yaml
  orderdoc furniture split orders.xlsx
  orderdoc history list`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		teardownEnv()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
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
		config.DefaultConfigFile,
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if skipEnv(cmd) {
			return nil
		}
		return setupEnv(cmd.Root().PersistentFlags().Changed("config"))
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return teardownEnv()
	}
}

// skipEnv reports whether cmd runs without configuration.
func skipEnv(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return !cmd.HasParent()
}

// setupEnv loads the configuration and opens the shared resources.
// The default config file may be absent; an explicit one must exist.
func setupEnv(explicitConfig bool) error {
	cfg, err := config.Load(cfgFile, !explicitConfig)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, closer, err := logging.Open(cfg.LogFile, level, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	env.cfg, env.log, env.logCloser = cfg, log, closer

	for vendor, rules := range cfg.FieldRules {
		if err := fieldrules.Validate(rules); err != nil {
			return fmt.Errorf("invalid field_rules.%s: %w", vendor, err)
		}
	}

	set, err := templates.LoadAll(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	env.templates = set

	retention := time.Duration(cfg.InputRetentionHours) * time.Hour
	store, err := history.Open(cfg.HistoryDB, history.WithRetention(retention))
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	env.history = store

	env.files = utils.NewFileManager(cfg.OutputDir, cfg.FilenameMaxLength)
	if cfg.ResultRetentionDays > 0 {
		maxAge := time.Duration(cfg.ResultRetentionDays) * 24 * time.Hour
		n, err := utils.CleanOldResults(cfg.OutputDir, maxAge)
		if err != nil {
			log.Warn("result cleanup failed: %v", err)
		} else if n > 0 {
			log.Info("removed %d expired result file(s)", n)
		}
	}

	log.Debug("using config %s, output %s, history %s", cfgFile, cfg.OutputDir, store.Path())
	return nil
}

// teardownEnv releases whatever setupEnv opened. It is safe to call twice.
func teardownEnv() error {
	var errs []error
	if env.history != nil {
		errs = append(errs, env.history.Close())
		env.history = nil
	}
	if env.logCloser != nil {
		errs = append(errs, env.logCloser.Close())
		env.logCloser = nil
	}
	return errors.Join(errs...)
}
