/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/valkyr/pkg/env"
)

// rewriteCmd represents the rewrite command
var rewriteCmd = &cobra.Command{
	Use:   "rewrite [NAME]...",
	Short: "Copy records into a fresh environment, compacting them",
	Long: `Copy sub-databases record by record into a fresh target
environment, then flush and compact the target. The result is the most
compact representation of the data, shedding any accumulated dead
space. With no arguments every sub-database is rewritten.

Example:
  valkyr -e ./data rewrite -E ./data.compact`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}
		targetPath, _ := cmd.Flags().GetString("target-env")
		if targetPath == "" {
			return fmt.Errorf("no target environment specified: use --target-env")
		}
		if targetPath == s.env.Path() {
			return fmt.Errorf("target environment must differ from the source")
		}

		names := args
		if len(names) == 0 {
			names = s.env.DBNames()
		}

		target, err := env.Open(env.Options{
			Path:        targetPath,
			CacheSizeMB: s.cfg.CacheSizeMB,
			MaxDBs:      s.cfg.MaxDBs,
			Create:      true,
		})
		if err != nil {
			return err
		}
		defer target.Close()

		for _, name := range names {
			n, err := rewriteDB(s, target, name)
			if err != nil {
				return err
			}
			fmt.Printf("Rewrote %d records of %q\n", n, name)
		}

		fmt.Println("Syncing..")
		if err := target.Flush(); err != nil {
			return err
		}
		return target.Compact()
	},
}

func rewriteDB(s *session, target *env.Env, name string) (int, error) {
	src, err := s.env.LookupDB(name)
	if err != nil {
		return 0, fmt.Errorf("sub-database %q: %w", name, err)
	}
	dst, err := target.OpenDB(name)
	if err != nil {
		return 0, err
	}

	cur, err := src.Cursor()
	if err != nil {
		return 0, err
	}
	defer cur.Close()

	txn := target.Begin()
	txn.MaxPuts = s.txnSize
	n := 0
	for cur.Next() {
		if err := txn.Put(dst, cur.Key(), cur.Value()); err != nil {
			txn.Discard()
			return n, err
		}
		n++
	}
	if err := cur.Err(); err != nil {
		txn.Discard()
		return n, err
	}
	return n, txn.Commit()
}

func init() {
	rootCmd.AddCommand(rewriteCmd)
	rewriteCmd.Flags().StringP("target-env", "E", "", "Directory for the rewritten environment")
}
