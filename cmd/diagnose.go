package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/imessage-tools/imessage-session/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// diagnoseCmd represents the diagnose command
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check store accessibility and report anomalies",
	Long: `Check that the message store can be located, opened, and decoded,
and report row-level anomalies such as messages not associated with any
chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("Message Store Diagnostics"))
		fmt.Fprintln(out)

		path, err := resolveStorePath()
		if err != nil {
			return err
		}
		if !internal.StoreExists(path) {
			return fmt.Errorf("store not found at %s", path)
		}
		fmt.Fprintln(out, successStyle.Render("Store found:"), path)

		db, cleanup, err := openStore()
		if err != nil {
			return err
		}
		defer cleanup()
		defer db.Close()
		fmt.Fprintln(out, successStyle.Render("Store opened read-only"))

		count, err := internal.MessageCount(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Messages: %d\n", count)

		dangling, err := internal.DanglingMessageCount(db)
		if err != nil {
			return err
		}
		if dangling > 0 {
			fmt.Fprintln(out, warningStyle.Render(
				fmt.Sprintf("Messages not associated with a chat: %d", dangling)))
		} else {
			fmt.Fprintln(out, successStyle.Render("All messages are associated with a chat"))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}
