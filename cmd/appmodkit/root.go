package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/appmodkit/internal/config"
	applog "github.com/nao1215/appmodkit/internal/log"
)

// issueURIEnv is read when no GitHub issue flag is given.
const issueURIEnv = "GITHUB_ISSUE_URI"

// NewRootCmd creates the root command for appmodkit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appmodkit",
		Short: "Application modernization toolkit",
		Long: `appmodkit supports application modernization workflows.

It summarizes AppCat assessment reports (report.json) into summary.md,
creates numbered modernization plans under .github/modernization/ and
locates the latest plan to run.

Every command prints KEY: value lines by default, or a single JSON object
with --json, so that scripts and agents can read the result.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("dir", "C", "",
		"Repository root used by the plan commands (default: current directory)")
	cmd.PersistentFlags().String("data-dir", "",
		"Directory of the history database (default: XDG data directory)")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .appmodkit in current or home directory)")

	// Add subcommands
	cmd.AddCommand(NewAssessCmd())
	cmd.AddCommand(NewCreatePlanCmd())
	cmd.AddCommand(NewRunPlanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getInheritedString retrieves a persistent string flag of the root command.
func getInheritedString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return value
}

// buildBaseConfig creates a Config from defaults, the configuration file
// and the global flags. Command specific flags are applied by the caller.
func buildBaseConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.ConfigFilePath = getInheritedString(cmd, "config")

	// If the user explicitly specified a config file path, error if not found.
	// If no path is specified, silently use defaults when no file is found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if dir := getInheritedString(cmd, "dir"); dir != "" {
		cfg.RepoDir = dir
	}
	if dataDir := getInheritedString(cmd, "data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}

	return cfg, nil
}

// setupLogger creates the secure structured logger and installs it as the
// default logger.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	logger := applog.NewSecureLogger(cmd.ErrOrStderr(), verbose)
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// repoRoot returns the repository root for the plan commands.
func repoRoot(cfg *config.Config) (string, error) {
	if cfg.RepoDir != "" {
		info, err := os.Stat(cfg.RepoDir)
		if err != nil {
			return "", fmt.Errorf("invalid repository directory: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("invalid repository directory: %s is not a directory", cfg.RepoDir)
		}
		return cfg.RepoDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}

// issueURI returns the flag value, falling back to GITHUB_ISSUE_URI.
func issueURI(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(issueURIEnv)
}
