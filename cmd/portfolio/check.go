package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/profile"
)

var checkProfile string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a profile",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkProfile, "profile", "", "YAML profile (default: built-in profile)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	p, err := profile.LoadOrDefault(checkProfile)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s (%d skills, %d projects)\n",
		p.FullName(), len(p.Skills), len(p.Projects))
	return nil
}
