package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove in-progress wizard sessions from the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	Run: func(cmd *cobra.Command, args []string) {
		rt := mustRuntime(cmd)
		defer rt.Close()

		users, err := rt.Wizard.Store().List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(users) == 0 {
			fmt.Println("No active sessions found.")
			return
		}

		fmt.Println("Active sessions:")
		for _, user := range users {
			fmt.Println("- " + string(user))
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <user>",
	Short: "Inspect the state of a user's session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		user := args[0]
		rt := mustRuntime(cmd)
		defer rt.Close()

		session, err := rt.Wizard.Peek(cmd.Context(), domain.UserID(user))
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", user, err)
			os.Exit(1)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling session: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <user>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := mustRuntime(cmd)
		defer rt.Close()

		hasError := false
		for _, user := range args {
			if err := rt.Wizard.Store().Delete(cmd.Context(), domain.UserID(user)); err != nil {
				fmt.Printf("Error removing '%s': %v\n", user, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", user)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

// TODO: Add support for --all flag in rm command

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
