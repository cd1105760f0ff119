/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/valkyr/pkg/env"
	"github.com/ssargent/valkyr/pkg/xxd"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get KEY...",
	Short: "Print the values of one or more keys",
	Long: `Print the value stored under each KEY in the selected
sub-database. With more than one key each value is preceded by a header
naming its key. Missing keys are reported on stderr and do not abort
the remaining lookups.

Examples:
  valkyr -e ./data get session
  valkyr -e ./data -d users get alice bob --xxd`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}
		db, err := s.env.LookupDB(selectedDB(cmd))
		if err != nil {
			return err
		}
		hexdump, _ := cmd.Flags().GetBool("xxd")

		missing := 0
		for _, key := range args {
			value, err := db.Get([]byte(key))
			if errors.Is(err, env.ErrKeyNotFound) {
				fmt.Fprintf(os.Stderr, "%q: key not found\n", key)
				missing++
				continue
			}
			if err != nil {
				return err
			}
			if len(args) > 1 {
				fmt.Printf("%q:\n", key)
			}
			if hexdump {
				fmt.Print(xxd.Dump(value))
			} else {
				os.Stdout.Write(value)
				fmt.Println()
			}
		}
		if missing == len(args) {
			return fmt.Errorf("no keys found")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().Bool("xxd", false, "Print values as xxd-style hex dumps")
}
