package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/version-lsp/version-lsp/internal/cache"
	"github.com/version-lsp/version-lsp/internal/logger"
	"github.com/version-lsp/version-lsp/internal/lsp"
	"github.com/version-lsp/version-lsp/internal/registryclient"
)

// version is set by build metadata, mirroring the teacher's goreleaser
// ldflags convention.
var version = "dev"

var (
	logLevelFlag string
	dataDirFlag  string
	bannerFlag   bool
	githubHost   string
	githubToken  string
)

var rootCmd = &cobra.Command{
	Use:     "version-lsp",
	Short:   "Language Server that flags outdated package and Action pins",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetLevel(logger.ParseLevel(logLevelFlag))
		commonlog.Configure(commonlogVerbosity(logLevelFlag), nil)
		if bannerFlag {
			printBanner()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version-lsp version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(os.Stdout, "version-lsp version %s\n", version)
		return nil
	},
}

func printBanner() {
	fmt.Fprintln(os.Stderr, "version-lsp "+version)
}

// commonlogVerbosity maps our --log-level flag onto commonlog's verbosity
// scale, so glsp's own request/response tracing follows the same knob as
// version-lsp's own logger.
func commonlogVerbosity(level string) int {
	switch level {
	case "debug":
		return 2
	case "warn", "error":
		return 0
	default:
		return 1
	}
}

func runServer() error {
	dir := dataDirFlag
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".cache", "version-lsp")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	c, err := cache.Open(filepath.Join(dir, "version-lsp.db"))
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer c.Close()

	clients, err := registryclient.NewSet(nil, githubHost, githubToken)
	if err != nil {
		return fmt.Errorf("build registry clients: %w", err)
	}

	lsp.BuildVersion = version
	server := lsp.New(c, clients)
	return server.Run()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory for the persistent version cache (default: ~/.cache/version-lsp)")
	rootCmd.PersistentFlags().BoolVar(&bannerFlag, "banner", false, "Print a startup banner to stderr")
	rootCmd.PersistentFlags().StringVar(&githubHost, "github-host", "", "GitHub host override, for GitHub Enterprise (default: github.com)")
	rootCmd.PersistentFlags().StringVar(&githubToken, "github-token", os.Getenv("GITHUB_TOKEN"), "GitHub token for Actions release/tag lookups")

	rootCmd.SilenceUsage = true
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
