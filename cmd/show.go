package cmd

import (
	"github.com/spf13/cobra"

	"bts.dev/pkg/bts/internal/domain"
	m "bts.dev/pkg/bts/internal/model"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <snippet-name>",
		Short: "List the files stored in a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parseSnippetName(args[0])
			if err != nil {
				return err
			}

			files, err := workflow.Show(cmd.Context(), domain.SnippetArgs{Home: m.Path(currentHome()), Name: name})
			if err != nil {
				return err
			}

			return uiFor(cmd).DisplaySnippetFiles(cmd.Context(), name, files)
		},
	}
}
