package cmd

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/imessage-tools/imessage-session/internal"
	"github.com/spf13/cobra"
)

var (
	senderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	variantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	childStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			PaddingLeft(4)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <guid>",
	Short: "Show one message with its reactions and replies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cleanup, err := openStore()
		if err != nil {
			return err
		}
		defer cleanup()
		defer db.Close()

		target, err := internal.FetchMessage(db, args[0])
		if err != nil {
			return err
		}
		if target == nil {
			return fmt.Errorf("no message with guid %s", args[0])
		}

		cache, err := internal.BuildReactionCache(db)
		if err != nil {
			return fmt.Errorf("failed to build reaction cache: %w", err)
		}

		printMessage(cmd, db, target, cache, internal.EpochOffset())
		return nil
	},
}

func printMessage(cmd *cobra.Command, db *sql.DB, m *internal.Message, cache internal.ReactionCache, offset int64) {
	out := cmd.OutOrStdout()

	sender := "Them"
	if m.IsFromMe {
		sender = "Me"
	}
	fmt.Fprintln(out, senderStyle.Render(sender), metaStyle.Render(internal.FormatDate(m.DateAuthored(offset))))

	if v := m.Variant(); v.Kind != internal.VariantNormal {
		fmt.Fprintln(out, variantStyle.Render(v.String()))
	}
	if e := m.Expressive(); e.Kind != internal.ExpressiveNone {
		fmt.Fprintln(out, variantStyle.Render("Sent with "+e.String()))
	}

	reactions, err := m.Reactions(db, cache)
	if err != nil {
		internal.LogWarn("Failed to resolve reactions: %v", err)
	}
	replies, err := m.Replies(db)
	if err != nil {
		internal.LogWarn("Failed to resolve replies: %v", err)
	}

	for idx, segment := range m.Body() {
		switch segment.Kind {
		case internal.SegmentText:
			fmt.Fprintln(out, segment.Text)
		case internal.SegmentAttachment:
			fmt.Fprintln(out, metaStyle.Render("[attachment]"))
		case internal.SegmentApp:
			fmt.Fprintln(out, metaStyle.Render("[app payload]"))
		}
		for _, reaction := range reactions[idx] {
			fmt.Fprintln(out, childStyle.Render(reaction.Variant().String()))
		}
		for _, reply := range replies[idx] {
			text := ""
			if reply.Text != nil {
				text = *reply.Text
			}
			fmt.Fprintln(out, childStyle.Render(fmt.Sprintf("↳ %s", text)))
		}
	}

	if diff, ok := m.TimeUntilRead(offset); ok && diff != "" {
		fmt.Fprintln(out, metaStyle.Render("Read after "+diff))
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
