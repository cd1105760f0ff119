/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/valkyr/pkg/exchange"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [NAME=PATH]...",
	Short: "Load cdbmake-format files into sub-databases",
	Long: `Read one or more files in the cdbmake record exchange format and
load their records into sub-databases, creating the sub-databases if
needed. Existing keys are overwritten. A malformed input file aborts
the load with a diagnostic naming the offending record.

Writes are chunked into transactions of --txn-size records to bound
memory on large loads.

Examples:
  valkyr -e ./data restore
  valkyr -e ./data restore users=users.cdbmake`,
	// Restoring into a fresh directory is the one case where the
	// environment may be created rather than required to exist.
	Annotations: map[string]string{createEnvAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}
		specs, err := parseDBSpecs(args, selectedDB(cmd), exchangeFile)
		if err != nil {
			return err
		}
		for _, spec := range specs {
			if err := restoreDB(s, spec); err != nil {
				return err
			}
		}
		return nil
	},
}

func restoreDB(s *session, spec dbSpec) error {
	db, err := s.env.OpenDB(spec.name)
	if err != nil {
		return fmt.Errorf("sub-database %q: %w", spec.name, err)
	}
	f, err := os.Open(spec.path)
	if err != nil {
		return err
	}
	defer f.Close()

	txn := s.env.Begin()
	txn.MaxPuts = s.txnSize
	n, err := exchange.NewReader(bufio.NewReader(f)).ReadAll(func(key, value []byte) error {
		return txn.Put(db, key, value)
	})
	if err != nil {
		txn.Discard()
		return fmt.Errorf("restore %q: %w", spec.path, err)
	}
	if err := txn.Commit(); err != nil {
		return err
	}
	fmt.Printf("Loaded %d keys from %q into %q\n", n, spec.path, db.Name())
	return nil
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
