/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/valkyr/pkg/env"
)

// currentSession returns the session opened by the root command.
func currentSession(cmd *cobra.Command) (*session, error) {
	s, ok := cmd.Context().Value(sessionKey).(*session)
	if !ok {
		return nil, fmt.Errorf("environment not initialized")
	}
	return s, nil
}

// selectedDB returns the sub-database named by --db, empty for main.
func selectedDB(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("db")
	return name
}

// dbSpec pairs a sub-database name with a file path for dump/restore.
type dbSpec struct {
	name string
	path string
}

// parseDBSpecs interprets positional NAME=PATH arguments. With no
// arguments it yields a single spec for defaultName with a path derived
// by defaultPath. Duplicate names and malformed arguments are errors.
func parseDBSpecs(args []string, defaultName string, defaultPath func(name string) string) ([]dbSpec, error) {
	if len(args) == 0 {
		if defaultName == "" {
			defaultName = env.MainDB
		}
		return []dbSpec{{name: defaultName, path: defaultPath(defaultName)}}, nil
	}

	specs := make([]dbSpec, 0, len(args))
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("argument %q: expected NAME=PATH", arg)
		}
		if seen[name] {
			return nil, fmt.Errorf("sub-database %q named twice", name)
		}
		seen[name] = true
		specs = append(specs, dbSpec{name: name, path: path})
	}
	return specs, nil
}

// exchangeFile derives the default dump/restore file for a
// sub-database: main.cdbmake for the main database, NAME.cdbmake
// otherwise.
func exchangeFile(name string) string {
	if name == env.MainDB {
		return "main.cdbmake"
	}
	return name + ".cdbmake"
}
