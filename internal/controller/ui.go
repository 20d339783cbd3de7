// Package controller provides output adapters for reporting snippet operations.
package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "bts.dev/pkg/bts/internal/model"
)

// OutputFormat selects how snippet listings are rendered.
type OutputFormat string

// Available OutputFormat values.
const (
	FormatTable OutputFormat = "table"
	FormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a user supplied format name.
func ParseOutputFormat(value string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected %q or %q)", value, FormatTable, FormatYAML)
	}
}

// UI defines how snippet operations are reported to the user.
// Implementations can use different output methods (plain text, styled, etc).
type UI interface {
	DisplaySnippets(ctx context.Context, snippets []m.SnippetInfo, format OutputFormat) error
	DisplaySnippetFiles(ctx context.Context, name m.SnippetName, files []m.Path) error
	DisplayInstantiated(ctx context.Context, name m.SnippetName, target m.Path)
	DisplayCaptured(ctx context.Context, name m.SnippetName, source, storage m.Path)
	DisplayRemoved(ctx context.Context, name m.SnippetName)
}

// NewUI returns a styled UI when the command writes to a terminal and a
// plain one otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewStyledUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
