/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/valkyr/pkg/config"
	"github.com/ssargent/valkyr/pkg/env"
)

type contextKey string

const sessionKey contextKey = "session"

// createEnvAnnotation marks the commands allowed to create the
// environment directory when it does not exist yet. Everything else
// requires an existing environment, so a mistyped --env path fails
// instead of silently materializing an empty store.
const createEnvAnnotation = "valkyr.create-env"

// session carries the open environment and resolved settings into the
// subcommands.
type session struct {
	env     *env.Env
	cfg     *config.Config
	txnSize int
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "valkyr",
	Short: "Valkyr - admin toolkit for key-ordered record stores",
	Long: `Valkyr inspects and manipulates a key-ordered record store environment:
dump and restore record streams in the cdbmake exchange format, get and
edit individual keys, take consistent live backups and watch store
telemetry as it changes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		envPath, _ := cmd.Flags().GetString("env")
		if envPath == "" {
			envPath = cfg.EnvPath
		}
		if envPath == "" {
			return fmt.Errorf("no environment specified: pass --env or set env_path in the config file")
		}

		readOnly, _ := cmd.Flags().GetBool("read-only")
		e, err := env.Open(env.Options{
			Path:        envPath,
			CacheSizeMB: intSetting(cmd, "cache-size", cfg.CacheSizeMB),
			MaxDBs:      intSetting(cmd, "max-dbs", cfg.MaxDBs),
			ReadOnly:    readOnly,
			Create:      !readOnly && cmd.Annotations[createEnvAnnotation] == "true",
		})
		if err != nil {
			return err
		}

		s := &session{
			env:     e,
			cfg:     cfg,
			txnSize: intSetting(cmd, "txn-size", cfg.TxnSize),
		}
		cmd.SetContext(context.WithValue(cmd.Context(), sessionKey, s))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if s, ok := cmd.Context().Value(sessionKey).(*session); ok {
			return s.env.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("env", "e", "", "Environment directory to operate on")
	pf.StringP("db", "d", "", "Sub-database to operate on (default: main)")
	pf.BoolP("read-only", "r", false, "Open the environment read-only")
	pf.IntP("cache-size", "S", 0, "Block cache size in megabytes")
	pf.IntP("txn-size", "T", 0, "Writes per transaction chunk during bulk loads")
	pf.IntP("max-dbs", "M", 0, "Maximum number of named sub-databases")
	pf.String("config", "", "Config file (default: ~/.config/valkyr/config.yaml)")
}

// resolveConfig loads the config file named by --config, or the default
// config path when one exists there, or the built-in defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.LoadConfig(path)
	}
	if path := config.GetDefaultConfigPath(); config.ConfigExists(path) {
		return config.LoadConfig(path)
	}
	return config.DefaultConfig(), nil
}

// intSetting prefers an explicitly set flag over the config value.
func intSetting(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}
