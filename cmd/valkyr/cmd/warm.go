/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// warmCmd represents the warm command
var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Read the environment's files into the OS page cache",
	Long: `Sequentially read every file in the environment directory, pulling
it into the OS page cache so that subsequent random reads hit memory.

Example:
  valkyr -e ./data -r warm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}
		start := time.Now()
		n, err := s.env.Warm()
		if err != nil {
			return err
		}
		fmt.Printf("Warmed %.2fmb in %dms\n",
			float64(n)/(1<<20), time.Since(start).Milliseconds())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(warmCmd)
}
