/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// copyCmd represents the copy command
var copyCmd = &cobra.Command{
	Use:   "copy DIR",
	Short: "Write a consistent backup of the environment to a directory",
	Long: `Write a consistent point-in-time copy of the whole environment into
DIR, which must not already exist. The copy is taken from a live
checkpoint and includes a manifest recording the backup's identity and
the last committed transaction id.

Example:
  valkyr -e ./data copy /backups/data-20260823`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}
		man, err := s.env.Copy(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Copied environment to %q (backup %s, txn %d)\n", args[0], man.ID, man.LastTxnID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
}
