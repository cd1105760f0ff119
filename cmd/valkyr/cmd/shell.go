/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/valkyr/pkg/env"
)

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactively query and edit the environment",
	Long: `Start an interactive shell against the environment. Arguments are
split shell-style, so quoted keys and values may contain spaces.

Commands:
  get KEY        print the value of KEY
  put KEY VALUE  store VALUE under KEY
  del KEY        remove KEY
  use [NAME]     switch sub-database; no argument switches to main
  dbs            list sub-databases
  stat           print environment statistics
  help           show this list
  exit           leave the shell`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}
		db, err := s.env.OpenDB(selectedDB(cmd))
		if err != nil {
			return err
		}
		return runShell(s, db, cmd.InOrStdin())
	},
}

func runShell(s *session, db *env.DB, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Printf("valkyr %s> ", db.Name())
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		words, err := shellquote.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			continue
		}
		if len(words) == 0 {
			continue
		}

		switch cmd, rest := words[0], words[1:]; cmd {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Println("commands: get put del use dbs stat help exit")
		case "dbs":
			for _, name := range s.env.DBNames() {
				fmt.Println(name)
			}
		case "use":
			name := ""
			if len(rest) > 0 {
				name = rest[0]
			}
			next, err := s.env.OpenDB(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "use: %v\n", err)
				continue
			}
			db = next
		case "get":
			if len(rest) != 1 {
				fmt.Fprintln(os.Stderr, "usage: get KEY")
				continue
			}
			value, err := db.Get([]byte(rest[0]))
			if errors.Is(err, env.ErrKeyNotFound) {
				fmt.Fprintf(os.Stderr, "%q: key not found\n", rest[0])
				continue
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "get: %v\n", err)
				continue
			}
			os.Stdout.Write(value)
			fmt.Println()
		case "put":
			if len(rest) != 2 {
				fmt.Fprintln(os.Stderr, "usage: put KEY VALUE")
				continue
			}
			if err := shellWrite(s, func(txn *env.Txn) error {
				return txn.Put(db, []byte(rest[0]), []byte(rest[1]))
			}); err != nil {
				fmt.Fprintf(os.Stderr, "put: %v\n", err)
			}
		case "del":
			if len(rest) != 1 {
				fmt.Fprintln(os.Stderr, "usage: del KEY")
				continue
			}
			if err := shellWrite(s, func(txn *env.Txn) error {
				return txn.Delete(db, []byte(rest[0]))
			}); err != nil {
				fmt.Fprintf(os.Stderr, "del: %v\n", err)
			}
		case "stat":
			out, err := yaml.Marshal(s.env.Stat())
			if err != nil {
				fmt.Fprintf(os.Stderr, "stat: %v\n", err)
				continue
			}
			os.Stdout.Write(out)
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q, try help\n", cmd)
		}
	}
}

// shellWrite runs a single edit in its own transaction.
func shellWrite(s *session, edit func(*env.Txn) error) error {
	txn := s.env.Begin()
	if err := edit(txn); err != nil {
		txn.Discard()
		return err
	}
	return txn.Commit()
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
