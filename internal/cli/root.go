// Package cli provides the command-line interface for the pricing application.
package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"optionheat/internal/config"
	"optionheat/internal/grid"
	"optionheat/internal/logging"
	"optionheat/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-08-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Store     store.ScenarioStore
	Evaluator *grid.Evaluator
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Evaluator = grid.NewEvaluator(cfg.Heatmap.CacheMaxEntries, logger)

	// Initialize SQLite scenario store
	dbPath := filepath.Join(config.DefaultConfigDir(), "optionheat.db")
	scenarioStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, scenario commands unavailable")
	} else {
		app.Store = scenarioStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "optionheat",
		Short: "optionheat - Black-Scholes option pricing and heatmaps",
		Long: `optionheat prices European options under the Black-Scholes model.

It reports theoretical values, P&L against purchase prices, and the Greeks,
and renders two-dimensional spot/volatility heatmaps with CSV export.

Use 'optionheat help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/optionheat)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newHeatmapCmd(app))
	rootCmd.AddCommand(newScenarioCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("optionheat v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Market Defaults")
	output.Printf("  Spot:            %s\n", FormatPrice(cfg.Market.Spot))
	output.Printf("  Strike:          %s\n", FormatPrice(cfg.Market.Strike))
	output.Printf("  Rate:            %.3f\n", cfg.Market.Rate)
	output.Printf("  Time (years):    %.3f\n", cfg.Market.TimeToExpiry)
	output.Printf("  Volatility:      %.3f\n", cfg.Market.Volatility)
	output.Printf("  Call Purchase:   %s\n", FormatPrice(cfg.Market.CallPurchasePrice))
	output.Printf("  Put Purchase:    %s\n", FormatPrice(cfg.Market.PutPurchasePrice))
	output.Println()

	output.Bold("Heatmap")
	output.Printf("  Spot Factors:    %.2f .. %.2f\n", cfg.Heatmap.SpotMinFactor, cfg.Heatmap.SpotMaxFactor)
	output.Printf("  Vol Factors:     %.2f .. %.2f\n", cfg.Heatmap.VolMinFactor, cfg.Heatmap.VolMaxFactor)
	output.Printf("  Resolution:      %d\n", cfg.Heatmap.Resolution)
	output.Printf("  Cache Entries:   %d\n", cfg.Heatmap.CacheMaxEntries)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)
	output.Printf("  File:            %v\n", cfg.Logging.File)
}
