package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/contractcheck/internal/config"
	"github.com/JonMunkholm/contractcheck/internal/logging"
)

// Exit codes.
const (
	exitOK        = 0
	exitIssues    = 1
	exitFatalConf = 2
)

// errIssuesFound ends a run whose contracts had issues. The summary has
// already been printed.
var errIssuesFound = errors.New("contract issues found")

// Flags shared by every command. Empty values leave the environment alone.
var (
	flagContractDir string
	flagCatalog     string
	flagFormat      string
	flagLogLevel    string
	flagLogFormat   string
	flagEnvFile     string
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "contractcheck",
	Short: "Data contract validation",
	Long: `contractcheck validates data contract workbooks before ingestion.

Each contract lives in <CONTRACT_DIR>/<ENTITY>/ and is checked for:
  - a registered entity prefix and a _SPRINT<n> file name
  - the template header
  - every field rule of the catalog, per dataset
  - agreement with the dataset's sample file (header, encoding, delimiter)

Issues are written as JSON or YAML plus an HTML report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		slog.Debug("configuration loaded", "config", cfg.String())
		return nil
	},
}

// Execute runs the root command and exits with the run's status.
func Execute() {
	err := rootCmd.Execute()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errIssuesFound):
		return exitIssues
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitFatalConf
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagContractDir, "dir", "", "contract directory (overrides CONTRACT_DIR)")
	pf.StringVar(&flagCatalog, "catalog", "", "rule catalog, JSON or YAML (overrides CATALOG_PATH)")
	pf.StringVar(&flagFormat, "format", "", "issues format, json or yaml (overrides ISSUES_FORMAT)")
	pf.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	pf.StringVar(&flagLogFormat, "log-format", "", "text or json (overrides LOG_FORMAT)")
	pf.StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the dotenv file, then the environment with command-line
// flags layered on top.
func loadConfig() (*config.Config, error) {
	// Overload overwrites existing env vars
	if err := godotenv.Overload(flagEnvFile); err != nil {
		slog.Debug("no .env file loaded", "path", flagEnvFile)
	}

	return config.LoadFrom(withOverrides(os.Getenv, map[string]string{
		"CONTRACT_DIR":  flagContractDir,
		"CATALOG_PATH":  flagCatalog,
		"ISSUES_FORMAT": flagFormat,
		"LOG_LEVEL":     flagLogLevel,
		"LOG_FORMAT":    flagLogFormat,
	}))
}

// withOverrides returns a lookup preferring non-empty overrides.
func withOverrides(getenv func(string) string, overrides map[string]string) func(string) string {
	return func(key string) string {
		if v := overrides[key]; v != "" {
			return v
		}
		return getenv(key)
	}
}
