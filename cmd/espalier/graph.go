package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [catalog-file]",
	Short: "Export the wizard flow visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the catalog's question flow.
With --user, the diagram highlights that user's current progress.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cat, err := loadCatalog(cmd, args)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.Overlay
		if user, _ := cmd.Flags().GetString("user"); user != "" {
			rt := mustRuntime(cmd)
			defer rt.Close()

			session, err := rt.Wizard.Peek(cmd.Context(), domain.UserID(user))
			if err != nil {
				fmt.Printf("Error loading session '%s': %v\n", user, err)
				os.Exit(1)
			}
			overlay = &graph.Overlay{CurrentStep: session.CurrentStep}
		}

		fmt.Print(graph.GenerateMermaid(cat, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("user", "", "Overlay a user's current progress on the diagram")
}
