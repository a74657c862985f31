package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/saxonthune/carta-sub006/cmd/carta/internal/ui"
	"github.com/saxonthune/carta-sub006/internal/config"
	"github.com/saxonthune/carta-sub006/pkg/document"
)

func newViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [document]",
		Short: "Explore a diagram in the terminal",
		Long: `Opens the diagram in an interactive terminal viewer. Drag nodes with
the mouse, pan with the arrow keys or a right-button drag, zoom with
the scroll wheel, and press / to search.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			path := cfg.Document.Path
			if len(args) > 0 {
				path = args[0]
			}
			doc, err := document.Load(path)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}

			program := tea.NewProgram(
				ui.NewModel(doc, cfg),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			_, err = program.Run()
			return err
		},
	}
	return cmd
}
