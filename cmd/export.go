package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/imessage-tools/imessage-session/internal"
	"github.com/imessage-tools/imessage-session/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the message transcript to file",
	Long: `Export the decoded message transcript to various formats
(jsonl, md, yaml, json).

Reactions and replies are folded into the message parts they target, and
rich app payloads, stickers, and send effects are labeled inline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cleanup, err := openStore()
		if err != nil {
			return err
		}
		defer cleanup()
		defer db.Close()

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		internal.LogDebug("Building reaction cache")
		cache, err := internal.BuildReactionCache(db)
		if err != nil {
			return fmt.Errorf("failed to build reaction cache: %w", err)
		}

		transcript, err := internal.BuildTranscript(db, cache, internal.EpochOffset())
		if err != nil {
			return fmt.Errorf("failed to build transcript: %w", err)
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		outPath := filepath.Join(outputDir, "messages."+exporter.Extension())
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

		if err := exporter.Export(transcript, out); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d messages to %s\n",
			len(transcript.Messages), outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "md", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
}
