/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// copyfdCmd represents the copyfd command
var copyfdCmd = &cobra.Command{
	Use:   "copyfd",
	Short: "Stream a backup of the environment to a file descriptor",
	Long: `Stream a consistent backup of the environment to an already open
file descriptor as a tar archive of the checkpoint files. The default
descriptor is stdout, for piping into compressors or over the network.

Examples:
  valkyr -e ./data copyfd | zstd > backup.tar.zst
  valkyr -e ./data copyfd --out-fd 3 3>backup.tar`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSession(cmd)
		if err != nil {
			return err
		}
		fd, _ := cmd.Flags().GetInt("out-fd")
		if fd < 0 {
			return fmt.Errorf("invalid file descriptor %d", fd)
		}

		out := os.Stdout
		if fd != 1 {
			out = os.NewFile(uintptr(fd), fmt.Sprintf("fd %d", fd))
			if out == nil {
				return fmt.Errorf("invalid file descriptor %d", fd)
			}
			defer out.Close()
		}
		if _, err := out.Stat(); err != nil {
			return fmt.Errorf("file descriptor %d: %w", fd, err)
		}
		return s.env.CopyFD(out)
	},
}

func init() {
	rootCmd.AddCommand(copyfdCmd)
	copyfdCmd.Flags().Int("out-fd", 1, "File descriptor to write the archive to")
}
