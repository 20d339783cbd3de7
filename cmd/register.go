package cmd

import (
	"github.com/spf13/cobra"

	"bts.dev/pkg/bts/internal/domain"
	m "bts.dev/pkg/bts/internal/model"
)

const registerLongDescription = `Create a snippet from a single file or from the contents of a directory.

Unless --append is given, whatever was stored under snippet-name before is
removed first.`

var appendFlag bool
var registerMaxDepthFlag uint

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <snippet-name> <source-path>",
		Short: "Create a new snippet",
		Long:  registerLongDescription,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parseSnippetName(args[0])
			if err != nil {
				return err
			}

			exclude, err := copyExcludes()
			if err != nil {
				return err
			}

			source := m.Path(args[1])

			storage, err := workflow.Capture(cmd.Context(), domain.RegisterArgs{
				Home:     m.Path(currentHome()),
				Name:     name,
				Source:   source,
				Append:   appendFlag,
				MaxDepth: uintFlagOrConfig(cmd.Flags(), maxDepthFlagName, maxDepthConfigKey),
				Exclude:  exclude,
			})
			if err != nil {
				return err
			}

			uiFor(cmd).DisplayCaptured(cmd.Context(), name, source, storage)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&appendFlag, appendFlagName, "a", false, "keep the previous snippet content and only add to it")
	cmd.Flags().UintVarP(&registerMaxDepthFlag, maxDepthFlagName, "m", defaultMaxDepth, "max depth that should be copied")

	return cmd
}
