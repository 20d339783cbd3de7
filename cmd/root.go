// Package cmd provides the root command and CLI setup for bts.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bts.dev/pkg/bts/internal/adapter"
	"bts.dev/pkg/bts/internal/controller"
	"bts.dev/pkg/bts/internal/domain"
	m "bts.dev/pkg/bts/internal/model"
)

var fsAdapter adapter.SnippetFSAdapter
var workflow domain.Workflow

// homeFlag is the configuration root holding templates/.
var homeFlag string

// excludePatterns filters entries out of every copy.
var excludePatterns []string

var verboseFlag bool
var logFileFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd *cobra.Command

func init() {
	setupConfig()

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSnippetFSAdapter()
	workflow = domain.NewWorkflow(fsAdapter)

	rootCmd = newRootCmd()
}

const rootLongDescription = `bts stores reusable files and directory trees ("snippets") and copies
them into new places on demand.

Snippets live in <home>/templates/<snippet-name>. Names are hierarchical,
so "config/mysql" is stored in templates/config/mysql.`

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "bts",
		Short:             "Automatic template file generator",
		Long:              rootLongDescription,
		SilenceUsage:      true,
		PersistentPreRunE: prepareRun,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// newRootCmd builds the full command tree.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	cmd.AddCommand(
		newNewCmd(),
		newRegisterCmd(),
		newListCmd(),
		newShowCmd(),
		newRemoveCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&homeFlag, homeFlagName, viper.GetString(homeConfigKey), "location of the snippet storage (env "+legacyHomeEnv+")")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(homeFlagName), homeConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "skip entries matching a glob relative to the copied directory (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file, relative paths are placed inside the snippet home")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// prepareRun loads the home config file and sets up logging before any
// subcommand runs.
func prepareRun(_ *cobra.Command, _ []string) error {
	home := currentHome()

	if err := loadConfigFile(home); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configureLogger(home, viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// copyExcludes returns the configured exclude globs after validating them.
func copyExcludes() ([]string, error) {
	patterns := viper.GetStringSlice(excludeConfigKey)
	if err := domain.ValidateExcludePatterns(patterns); err != nil {
		return nil, err
	}

	return patterns, nil
}

func parseSnippetName(arg string) (m.SnippetName, error) {
	name := m.SnippetName(arg)
	if err := name.Validate(); err != nil {
		return "", err
	}

	return name, nil
}

func uiFor(cmd *cobra.Command) controller.UI {
	return controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()))
}
