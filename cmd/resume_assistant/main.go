// Package main provides the resume assistant command line and HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_assistant",
	Short: "Resume assistant workspace",
	Long: `Resume assistant tailors a CV and cover letter to a job description through a
chat with a content generator, and keeps a history of the applications you send.

Configuration can be loaded from a JSON file using --config. Environment variables
override the file and command-line flags override both.`,
	SilenceUsage: true,
}

var (
	rootConfigPath  string
	rootStore       string
	rootSQLitePath  string
	rootDatabaseURL string
	rootNamespace   string
	rootAPIKey      string
	rootModel       string
	rootLanguage    string
	rootVerbose     bool
	rootLogFormat   string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	pf.StringVar(&rootStore, "store", "", "Storage backend: sqlite, postgres or memory")
	pf.StringVar(&rootSQLitePath, "sqlite-path", "", "Path of the SQLite database file")
	pf.StringVar(&rootDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	pf.StringVar(&rootNamespace, "namespace", "", "Session namespace; separates independent workspaces in one store")
	pf.StringVar(&rootAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	pf.StringVar(&rootModel, "model", "", "Gemini model used for every request")
	pf.StringVar(&rootLanguage, "language", "", "Output language: fr or en")
	pf.BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
	pf.StringVar(&rootLogFormat, "log-format", "", "Log format: text or json")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
