package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version and Go version used to build this tool.",
		Args:  cobra.NoArgs,
		// Printing the version needs neither the config file nor a log file.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println("version: unknown")
				return
			}

			cmd.Println("tool version\t", info.Main.Version)
			cmd.Println("go version\t", info.GoVersion)
		},
	}
}
