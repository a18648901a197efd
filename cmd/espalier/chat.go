package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the interactive setup wizard",
	Long: `Starts the wizard on stdin/stdout. Send /setup to begin a run, /cancel to
abort it, and exit (or Ctrl+D) to leave the chat.`,
	Run: func(cmd *cobra.Command, args []string) {
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		headless, _ := cmd.Flags().GetBool("headless")
		user, _ := cmd.Flags().GetString("user")

		rt, err := newRuntime(cmd)
		if err != nil {
			fmt.Printf("Error initializing espalier: %v\n", err)
			os.Exit(1)
		}
		defer rt.Close()

		err = cli.RunChat(cmd.Context(), rt, cli.ChatOptions{
			JSON:     jsonMode,
			Plain:    plain,
			Headless: headless,
			User:     user,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("headless", false, "Run in headless mode (no banner or resume notice, strict IO)")
	chatCmd.Flags().Bool("json", false, "Run in JSON mode (JSONL events in, JSONL replies out)")
	chatCmd.Flags().Bool("plain", false, "Disable markdown rendering")
	chatCmd.Flags().String("user", "", "User identity for the session (defaults to ESPALIER_USER)")

	// Running espalier with no subcommand starts a chat.
	rootCmd.Run = chatCmd.Run
}
