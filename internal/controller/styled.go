package controller

import (
	"context"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "bts.dev/pkg/bts/internal/model"
)

var (
	nameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// StyledUI decorates SimpleUI output with terminal colors.
type StyledUI struct {
	*SimpleUI
}

// NewStyledUI creates a new StyledUI.
func NewStyledUI(cmd *cobra.Command) *StyledUI {
	return &StyledUI{SimpleUI: NewSimpleUI(cmd)}
}

// DisplaySnippetFiles prints the snippet files as a dimmed tree.
func (s *StyledUI) DisplaySnippetFiles(ctx context.Context, name m.SnippetName, files []m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s\n", nameStyle.Render(string(name)))

	for _, file := range files {
		s.printf("  %s\n", faintStyle.Render(string(file)))
	}

	return nil
}

// DisplayInstantiated reports where a snippet was copied to.
func (s *StyledUI) DisplayInstantiated(ctx context.Context, name m.SnippetName, target m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s %s %s %s\n",
		successStyle.Render("✓"),
		nameStyle.Render(string(name)),
		faintStyle.Render("→"),
		pathStyle.Render(string(target)))
}

// DisplayCaptured reports a stored snippet.
func (s *StyledUI) DisplayCaptured(ctx context.Context, name m.SnippetName, source, storage m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s %s %s %s\n",
		successStyle.Render("✓"),
		pathStyle.Render(string(source)),
		faintStyle.Render("→"),
		nameStyle.Render(string(name)))
	s.printf("  %s\n", faintStyle.Render(string(storage)))
}

// DisplayRemoved reports a deleted snippet.
func (s *StyledUI) DisplayRemoved(ctx context.Context, name m.SnippetName) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s %s\n", successStyle.Render("✗"), nameStyle.Render(string(name)))
}
