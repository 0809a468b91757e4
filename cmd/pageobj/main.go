package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/v0xg/pageobj/internal/config"
	"github.com/v0xg/pageobj/internal/observability"
)

var (
	cfgFile string
	verbose bool
	v       = config.NewViper()
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pageobj",
		Short: "Run the page-object end-to-end suite against vue-element-admin",
		Long: `pageobj drives a browser through the login, dashboard and menu screens of
the application and checks that every expected element becomes visible.

Example:
  USER_NAME=admin PASSWORD=111111 pageobj run --tag @smoke`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	flags.String("base-url", "", "Application base URL")
	flags.String("driver", "", "Browser driver: rod or playwright")
	flags.Bool("headless", true, "Run the browser without a window")
	flags.String("state-file", "", "Where the authenticated session is stored")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	// Flags only override configuration when set explicitly.
	_ = v.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = v.BindPFlag("driver", flags.Lookup("driver"))
	_ = v.BindPFlag("browser.headless", flags.Lookup("headless"))
	_ = v.BindPFlag("auth.state_file", flags.Lookup("state-file"))

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newAuthCmd(),
		newCheckCmd(),
		newTagsCmd(),
		newScaffoldCmd(),
	)
	return rootCmd
}

// loadConfig reads configuration and starts the logger
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}
	observability.InitializeLogger(cfg.Logger)
	logger := observability.GetLogger()
	logVerbose("Config:")
	logVerbose("  Base URL: %s", cfg.BaseURL)
	logVerbose("  Driver: %s (headless=%t)", cfg.Driver, cfg.Browser.Headless)
	logVerbose("  State file: %s", cfg.Auth.StateFile)
	return cfg, logger, nil
}

func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
