package cmd

import (
	"github.com/spf13/cobra"

	"bts.dev/pkg/bts/internal/domain"
	m "bts.dev/pkg/bts/internal/model"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <snippet-name>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored snippet",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parseSnippetName(args[0])
			if err != nil {
				return err
			}

			if err := workflow.Remove(cmd.Context(), domain.SnippetArgs{Home: m.Path(currentHome()), Name: name}); err != nil {
				return err
			}

			uiFor(cmd).DisplayRemoved(cmd.Context(), name)

			return nil
		},
	}
}
