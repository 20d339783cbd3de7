package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bts.dev/pkg/bts/internal/controller"
	"bts.dev/pkg/bts/internal/domain"
	m "bts.dev/pkg/bts/internal/model"
)

var listFormatFlag string
var listParallelFlag int

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored snippets",
		Long:    "List every stored snippet with its file count and size.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := controller.ParseOutputFormat(listFormatFlag)
			if err != nil {
				return err
			}

			snippets, err := workflow.List(cmd.Context(), domain.ListArgs{
				Home:    m.Path(currentHome()),
				Threads: viper.GetInt(listThreadsConfigKey),
			})
			if err != nil {
				return err
			}

			return uiFor(cmd).DisplaySnippets(cmd.Context(), snippets, format)
		},
	}

	cmd.Flags().StringVarP(&listFormatFlag, formatFlagName, "f", string(controller.FormatTable), "output format: table or yaml")
	cmd.Flags().IntVarP(&listParallelFlag, parallelFlagName, "p", viper.GetInt(listThreadsConfigKey), "number of snippets scanned in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), listThreadsConfigKey)

	return cmd
}
