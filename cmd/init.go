package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "bts.dev/pkg/bts/internal/model"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default bts.yaml configuration file",
		Long: `Create a bts.yaml in the snippet home populated with the current CLI
defaults so it can be edited manually.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := currentHome()
			if err := fsAdapter.MkdirAll(m.Path(home)); err != nil {
				return fmt.Errorf("failed to create snippet home: %w", err)
			}

			targetPath := filepath.Join(home, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s\n", targetPath)

			return nil
		},
	}
}
