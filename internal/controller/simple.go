package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "bts.dev/pkg/bts/internal/model"
)

// SimpleUI implements UI using the cobra command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplaySnippets prints stored snippets as a table or as YAML.
func (s *SimpleUI) DisplaySnippets(ctx context.Context, snippets []m.SnippetInfo, format OutputFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if format == FormatYAML {
		out, err := renderSnippetsYAML(snippets)
		if err != nil {
			return err
		}

		s.printf("%s", out)

		return nil
	}

	if len(snippets) == 0 {
		s.printf("No snippets registered yet.\n")
		return nil
	}

	s.printf("%s", renderSnippetTable(snippets))

	return nil
}

func renderSnippetsYAML(snippets []m.SnippetInfo) (string, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(map[string][]m.SnippetInfo{"snippets": snippets}); err != nil {
		return "", fmt.Errorf("failed to encode snippets: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode snippets: %w", err)
	}

	return buf.String(), nil
}

func renderSnippetTable(snippets []m.SnippetInfo) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Snippet", "Files", "Dirs", "Size"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	totalFiles := 0

	var totalBytes int64

	for _, snippet := range snippets {
		table.Append([]string{
			string(snippet.Name),
			fmt.Sprintf("%d", snippet.Files),
			fmt.Sprintf("%d", snippet.Dirs),
			formatBytes(snippet.Bytes),
		})

		totalFiles += snippet.Files
		totalBytes += snippet.Bytes
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Snippets %d", len(snippets)),
		fmt.Sprintf("%d", totalFiles),
		"",
		formatBytes(totalBytes),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplaySnippetFiles prints the files stored for one snippet.
func (s *SimpleUI) DisplaySnippetFiles(ctx context.Context, name m.SnippetName, files []m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s\n", name)

	for _, file := range files {
		s.printf("  %s\n", file)
	}

	return nil
}

// DisplayInstantiated reports where a snippet was copied to.
func (s *SimpleUI) DisplayInstantiated(ctx context.Context, name m.SnippetName, target m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Instantiated %s into %s\n", name, target)
}

// DisplayCaptured reports a stored snippet.
func (s *SimpleUI) DisplayCaptured(ctx context.Context, name m.SnippetName, source, storage m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Registered %s from %s (%s)\n", name, source, storage)
}

// DisplayRemoved reports a deleted snippet.
func (s *SimpleUI) DisplayRemoved(ctx context.Context, name m.SnippetName) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Removed %s\n", name)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
