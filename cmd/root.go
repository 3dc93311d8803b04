// =============================================================================
// OTM Order Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// attached here.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ordergen)
//   ├── generateCmd (ordergen generate)
//   ├── importCmd   (ordergen import <file>, alias "process")
//   ├── templateCmd (ordergen template <so|po>)
//   └── versionCmd  (ordergen version)
//
// SETUP (before any subcommand runs):
//   1. Load .env into the environment
//   2. Load ordergen.yaml (or --config) and apply environment overrides
//   3. Build the zap logger (--verbose forces debug)
//   4. Enforce the APP_PASS passcode gate
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/otm-order-generator/internal/config"
	"github.com/ginjaninja78/otm-order-generator/internal/gate"
	"github.com/ginjaninja78/otm-order-generator/internal/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// passcode is checked against APP_PASS. Prompted for when empty.
var passcode string

// skipSetup marks commands that run without configuration or the gate.
const skipSetup = "skip_setup"

// app holds what the root command prepared for the running subcommand.
var app struct {
	cfg   *config.Config
	log   *zap.Logger
	runID string
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "ordergen",
	Short: "OTM Order Generator - Build, import and submit OTM order XML",
	Long: `OTM Order Generator builds Oracle Transportation Management order documents
for integration testing.

Key Features:
  - Random sales orders (Release) and purchase orders (TransOrder)
  - CSV / XLSX import grouped into one document per order
  - ZIP archive of every document, plus optional per-order XML files
  - Optional POST to a dev/test endpoint with a per-order status report

Example Usage:
  ordergen generate --kind so --count 5 --suffix-gid
  ordergen import orders.xlsx --kind po --post --endpoint https://otm-dev.example.com/...
  ordergen template so --format xlsx`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSetup] == "true" {
			return nil
		}
		return setup(cmd)
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// setup loads configuration and logging, then applies the passcode gate.
func setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	prompt := gate.ReaderPrompt(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err := gate.Check(cfg.Passcode, passcode, prompt); err != nil {
		zl.Warn("passcode rejected", zap.String("command", cmd.Name()))
		return err
	}

	app.cfg = cfg
	app.runID = uuid.New().String()
	app.log = zl.With(zap.String("run_id", app.runID))
	app.log.Debug("configuration loaded",
		zap.String("config", path),
		zap.String("domain", cfg.Domain),
		zap.String("output_dir", cfg.OutputDir),
	)
	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is ordergen.yaml when present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&passcode,
		"passcode",
		"",
		"Passcode required when APP_PASS is set (prompted for when omitted)",
	)
}
