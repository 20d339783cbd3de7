package cmd

import (
	"github.com/spf13/cobra"

	"bts.dev/pkg/bts/internal/domain"
	m "bts.dev/pkg/bts/internal/model"
)

const newLongDescription = `Copy the contents of a stored snippet into target-path, or into the
current directory when no target is given.

Depth 0 is the snippet's own top level: --max-depth 0 copies only the files
found there, --max-depth 1 also copies the files of its subdirectories, and
so on. Directories below the limit are skipped silently.`

var withParentFlag bool
var newMaxDepthFlag uint

func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <snippet-name> [target-path]",
		Short: "Instantiate a snippet",
		Long:  newLongDescription,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parseSnippetName(args[0])
			if err != nil {
				return err
			}

			var target m.Path
			if len(args) > 1 {
				target = m.Path(args[1])
			}

			exclude, err := copyExcludes()
			if err != nil {
				return err
			}

			destination, err := workflow.Instantiate(cmd.Context(), domain.NewArgs{
				Home:       m.Path(currentHome()),
				Name:       name,
				Target:     target,
				WithParent: withParentFlag,
				MaxDepth:   uintFlagOrConfig(cmd.Flags(), maxDepthFlagName, maxDepthConfigKey),
				Exclude:    exclude,
			})
			if err != nil {
				return err
			}

			uiFor(cmd).DisplayInstantiated(cmd.Context(), name, destination)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&withParentFlag, withParentFlagName, "w", false, "spawn inside a folder path named after the snippet")
	cmd.Flags().UintVarP(&newMaxDepthFlag, maxDepthFlagName, "m", defaultMaxDepth, "max depth that should be copied")

	return cmd
}
