package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse archived setup runs",
	Long: `List and inspect completed runs recorded in the archive.
Requires ESPALIER_ARCHIVE to point at an archive database.`,
}

var runsLsCmd = &cobra.Command{
	Use:   "ls <user>",
	Short: "List a user's completed runs, newest first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := mustRuntime(cmd)
		defer rt.Close()

		if rt.Archive == nil {
			fmt.Println("Run archive is not configured. Set ESPALIER_ARCHIVE to a database path.")
			os.Exit(1)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := rt.Archive.List(cmd.Context(), domain.UserID(args[0]), limit)
		if err != nil {
			fmt.Printf("Error listing runs: %v\n", err)
			os.Exit(1)
		}

		if len(runs) == 0 {
			fmt.Println("No completed runs found.")
			return
		}

		for _, run := range runs {
			fmt.Printf("%s  %s  %d answers\n", run.ID, run.CompletedAt.Format(time.RFC3339), len(run.Answers))
		}
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one archived run in full",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := mustRuntime(cmd)
		defer rt.Close()

		if rt.Archive == nil {
			fmt.Println("Run archive is not configured. Set ESPALIER_ARCHIVE to a database path.")
			os.Exit(1)
		}

		run, err := rt.Archive.Get(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading run '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling run: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsLsCmd)
	runsCmd.AddCommand(runsShowCmd)

	runsLsCmd.Flags().Int("limit", 10, "Maximum number of runs to list")
}
