/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/valkyr/pkg/env"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Apply put and delete edits to a sub-database",
	Long: `Apply a batch of edits to the selected sub-database in a single
transaction. --set and --set-file overwrite existing keys; --add and
--add-file refuse to, reporting the collision on stderr. The *-file
variants read the value from a file, allowing binary values.

Examples:
  valkyr -e ./data edit --set motd="hello" --delete stale
  valkyr -e ./data edit --add-file cert=server.pem`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}
		db, err := s.env.OpenDB(selectedDB(cmd))
		if err != nil {
			return err
		}

		sets, _ := cmd.Flags().GetStringArray("set")
		setFiles, _ := cmd.Flags().GetStringArray("set-file")
		adds, _ := cmd.Flags().GetStringArray("add")
		addFiles, _ := cmd.Flags().GetStringArray("add-file")
		deletes, _ := cmd.Flags().GetStringArray("delete")

		if len(sets)+len(setFiles)+len(adds)+len(addFiles)+len(deletes) == 0 {
			return fmt.Errorf("no edits given: use --set, --set-file, --add, --add-file or --delete")
		}

		txn := s.env.Begin()
		applied, err := applyEdits(txn, db, editBatch{
			sets:     sets,
			setFiles: setFiles,
			adds:     adds,
			addFiles: addFiles,
			deletes:  deletes,
		})
		if err != nil {
			txn.Discard()
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		fmt.Printf("Applied %d edits to %q\n", applied, db.Name())
		return nil
	},
}

type editBatch struct {
	sets     []string
	setFiles []string
	adds     []string
	addFiles []string
	deletes  []string
}

func applyEdits(txn *env.Txn, db *env.DB, batch editBatch) (int, error) {
	applied := 0

	for _, arg := range batch.sets {
		key, value, err := splitEdit(arg)
		if err != nil {
			return applied, err
		}
		if err := txn.Put(db, key, value); err != nil {
			return applied, err
		}
		applied++
	}
	for _, arg := range batch.setFiles {
		key, value, err := splitFileEdit(arg)
		if err != nil {
			return applied, err
		}
		if err := txn.Put(db, key, value); err != nil {
			return applied, err
		}
		applied++
	}
	for _, arg := range batch.adds {
		key, value, err := splitEdit(arg)
		if err != nil {
			return applied, err
		}
		stored, err := txn.PutNoOverwrite(db, key, value)
		if err != nil {
			return applied, err
		}
		if !stored {
			fmt.Fprintf(os.Stderr, "%q: key already exists, not overwritten\n", key)
			continue
		}
		applied++
	}
	for _, arg := range batch.addFiles {
		key, value, err := splitFileEdit(arg)
		if err != nil {
			return applied, err
		}
		stored, err := txn.PutNoOverwrite(db, key, value)
		if err != nil {
			return applied, err
		}
		if !stored {
			fmt.Fprintf(os.Stderr, "%q: key already exists, not overwritten\n", key)
			continue
		}
		applied++
	}
	for _, key := range batch.deletes {
		if err := txn.Delete(db, []byte(key)); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

func splitEdit(arg string) ([]byte, []byte, error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || key == "" {
		return nil, nil, fmt.Errorf("edit %q: expected KEY=VALUE", arg)
	}
	return []byte(key), []byte(value), nil
}

func splitFileEdit(arg string) ([]byte, []byte, error) {
	key, path, ok := strings.Cut(arg, "=")
	if !ok || key == "" || path == "" {
		return nil, nil, fmt.Errorf("edit %q: expected KEY=FILE", arg)
	}
	value, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return []byte(key), value, nil
}

func init() {
	rootCmd.AddCommand(editCmd)
	f := editCmd.Flags()
	f.StringArray("set", nil, "KEY=VALUE to store, overwriting any existing value")
	f.StringArray("set-file", nil, "KEY=FILE whose contents to store, overwriting")
	f.StringArray("add", nil, "KEY=VALUE to store only if the key is absent")
	f.StringArray("add-file", nil, "KEY=FILE whose contents to store only if absent")
	f.StringArray("delete", nil, "KEY to remove; deleting an absent key is not an error")
}
