/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/valkyr/pkg/env"
)

// statCmd represents the stat command
var statCmd = &cobra.Command{
	Use:   "stat",
	Short: "Print environment statistics as YAML",
	Long: `Print a point-in-time snapshot of the environment's tree shape and
operational counters as YAML.

Example:
  valkyr -e ./data -r stat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(struct {
			Stat env.Stat `yaml:"stat"`
			Info env.Info `yaml:"info"`
		}{
			Stat: s.env.Stat(),
			Info: s.env.Info(),
		})
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(statCmd)
}
