package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/pkg/catalog"
	"github.com/spf13/cobra"
)

const starterCatalog = `version: "1"
wizard:
  name: reduction
  questions:
    - key: puffs
      label: Puffs
      prompt: "📊 How many puffs per day?"
      validation:
        kind: positive_number
    - key: method
      label: Method
      prompt: "🎯 Reduce by 'number' or 'percent'?"
      validation:
        kind: choice
        options: [number, percent]
    - key: goal
      label: Goal
      prompt: "💪 Weekly reduction goal?"
      validation:
        kind: positive_number
`

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter catalog definition",
	Long: `Generates a catalog definition file matching the built-in wizard. Edit it and
point ESPALIER_CATALOG (or --catalog) at it to customize the questions.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := "espalier.yaml"
		if len(args) > 0 {
			target = args[0]
		}

		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Refusing to overwrite existing file: %s\n", target)
			os.Exit(1)
		}

		if err := os.WriteFile(target, []byte(starterCatalog), 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", target, err)
			os.Exit(1)
		}

		// Prove the generated file compiles before calling it ready.
		if _, err := catalog.Load(target); err != nil {
			fmt.Printf("Generated catalog failed validation: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Wrote %s\n", target)
		fmt.Println("Point ESPALIER_CATALOG at it (or pass --catalog) to use it.")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
