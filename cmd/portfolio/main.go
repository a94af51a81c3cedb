// Command portfolio serves the personal portfolio site.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Personal portfolio site",
	Long:          "Serves a single-page portfolio (hero, skills, projects, contact) rendered from a profile.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
