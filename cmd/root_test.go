package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "bts.dev/pkg/bts/internal/model"
)

// executeRoot runs a fresh command tree and returns everything written to stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

// writeFiles creates files (slash-separated relative path -> content) under root.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(content)
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "bts", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)

	names := []string{}
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	assert.Subset(t, names, []string{"new", "register", "list", "show", "remove", "init", "version"})
}

func TestRootCmd_HelpOutput(t *testing.T) {
	t.Setenv(legacyHomeEnv, t.TempDir())

	output, err := executeRoot(t)

	require.NoError(t, err)
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "templates/<snippet-name>")
}

func TestInit(t *testing.T) {
	assert.NotNil(t, fsAdapter)
	assert.NotNil(t, workflow)
	assert.NotNil(t, rootCmd)
}

func TestRootCmd_HomeFromLegacyEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv(legacyHomeEnv, home)

	assert.Equal(t, home, currentHome())
}

func TestExpandHome(t *testing.T) {
	userHome, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "/srv/snippets", expandHome("/srv/snippets"))
	assert.Equal(t, "relative", expandHome("relative"))
	assert.Equal(t, "~other", expandHome("~other"))
	assert.Equal(t, userHome, expandHome("~"))
	assert.Equal(t, filepath.Join(userHome, "snips"), expandHome("~/snips"))
}

func TestUintFlagOrConfig(t *testing.T) {
	cmd := newNewCmd()
	flags := cmd.Flags()

	assert.Equal(t, uint(defaultMaxDepth), uintFlagOrConfig(flags, maxDepthFlagName, maxDepthConfigKey))

	require.NoError(t, flags.Set(maxDepthFlagName, "3"))
	assert.Equal(t, uint(3), uintFlagOrConfig(flags, maxDepthFlagName, maxDepthConfigKey))
}

func TestParseSnippetName(t *testing.T) {
	name, err := parseSnippetName("config/mysql")
	require.NoError(t, err)
	assert.Equal(t, m.SnippetName("config/mysql"), name)

	_, err = parseSnippetName("../escape")
	require.Error(t, err)
}

func TestCopyExcludes_RejectsInvalidPattern(t *testing.T) {
	home := t.TempDir()
	writeFiles(t, home, map[string]string{"src/a.txt": "a"})

	_, err := executeRoot(t, "--home", home, "-x", "[unclosed", "register", "bad", filepath.Join(home, "src"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestExecute(t *testing.T) {
	originalRootCmd := rootCmd
	defer func() { rootCmd = originalRootCmd }()

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	Execute()
}

func TestExecute_ProcessLevel_Success(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS") == "1" {
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Println("success")
				return nil
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd

		Execute()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Success")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS=1")
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, string(output), "success")
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")
				return fmt.Errorf("command failed")
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd

		Execute()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)

	if exitErr, ok := err.(*exec.ExitError); ok {
		assert.Equal(t, 1, exitErr.ExitCode())
	} else {
		assert.Fail(t, "expected exec.ExitError", "got %T", err)
	}

	assert.Contains(t, string(output), "error occurred")
}
