/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// dropCmd represents the drop command
var dropCmd = &cobra.Command{
	Use:   "drop NAME...",
	Short: "Delete named sub-databases and their records",
	Long: `Delete one or more named sub-databases: their records, entry
counters and registry entries. The main sub-database cannot be dropped.

Example:
  valkyr -e ./data drop sessions staging`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}
		for _, name := range args {
			db, err := s.env.LookupDB(name)
			if err != nil {
				return fmt.Errorf("sub-database %q: %w", name, err)
			}
			if err := s.env.Drop(db); err != nil {
				return fmt.Errorf("drop %q: %w", name, err)
			}
			fmt.Printf("Dropped %q\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dropCmd)
}
