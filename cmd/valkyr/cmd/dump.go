/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/valkyr/pkg/env"
	"github.com/ssargent/valkyr/pkg/exchange"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump [NAME=PATH]...",
	Short: "Dump sub-databases to cdbmake-format files",
	Long: `Dump one or more sub-databases to files in the cdbmake record
exchange format. With no arguments the selected sub-database (--db,
default main) is dumped to NAME.cdbmake in the current directory.

Examples:
  valkyr -e ./data dump
  valkyr -e ./data dump users=users.cdbmake
  valkyr -e ./data dump --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}

		var specs []dbSpec
		if all, _ := cmd.Flags().GetBool("all"); all {
			if len(args) > 0 {
				return fmt.Errorf("--all cannot be combined with NAME=PATH arguments")
			}
			for _, name := range s.env.DBNames() {
				specs = append(specs, dbSpec{name: name, path: exchangeFile(name)})
			}
		} else {
			specs, err = parseDBSpecs(args, selectedDB(cmd), exchangeFile)
			if err != nil {
				return err
			}
		}

		for _, spec := range specs {
			if err := dumpDB(s.env, spec); err != nil {
				return err
			}
		}
		return nil
	},
}

func dumpDB(e *env.Env, spec dbSpec) error {
	db, err := e.LookupDB(spec.name)
	if err != nil {
		return fmt.Errorf("sub-database %q: %w", spec.name, err)
	}
	cur, err := db.Cursor()
	if err != nil {
		return err
	}
	defer cur.Close()

	f, err := os.Create(spec.path)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(f)

	n, err := exchange.NewWriter(out).WriteAll(cur)
	if err == nil {
		err = out.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Printf("Dumped %d records from %q to %q\n", n, db.Name(), spec.path)
	return nil
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Bool("all", false, "Dump every sub-database to NAME.cdbmake")
}
