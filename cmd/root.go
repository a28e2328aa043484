package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imessage-tools/imessage-session/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string
	copyDB  bool
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imessage-session",
	Short: "Decode and export Messages chat history",
	Long: `A CLI tool to decode and export message history from the macOS
Messages store (chat.db).

The store represents threads, reactions, and rich app payloads as
loosely-encoded identifiers; this tool reconstructs them into a structured
transcript and exports it in various formats (Markdown, JSON, JSONL, YAML).

Quick Start:
  imessage-session export --format md    # Export everything as Markdown
  imessage-session show <guid>           # View one message with its thread
  imessage-session diagnose              # Check store accessibility

The store is opened read-only and never modified.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the chat.db store (defaults to the standard Messages location)")
	rootCmd.PersistentFlags().BoolVar(&copyDB, "copy", false, "Copy the store to a temporary location before reading, to avoid locking issues")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// resolveStorePath picks the store path from the --db flag or the OS
// default.
func resolveStorePath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return internal.DefaultStorePath()
}

// openStore opens the message store honoring the --db and --copy flags. The
// returned cleanup removes any temporary copy and must be called after the
// database is closed.
func openStore() (*sql.DB, func(), error) {
	path, err := resolveStorePath()
	if err != nil {
		return nil, nil, err
	}
	if !internal.StoreExists(path) {
		return nil, nil, fmt.Errorf("store not found at %s", path)
	}

	cleanup := func() {}
	if copyDB {
		copied, err := internal.CopyStoreToTemp(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to copy store: %w", err)
		}
		tmpDir := filepath.Dir(copied)
		cleanup = func() {
			if err := os.RemoveAll(tmpDir); err != nil {
				internal.LogWarn("Failed to clean up temporary store copy: %v", err)
			}
		}
		path = copied
	}

	db, err := internal.OpenDatabase(path)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return db, cleanup, nil
}
