package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-preview"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "carta",
		Short: "Carta - interactive node-link diagrams",
		Long: `Carta renders node-link diagrams from a YAML document and lets you
explore them interactively: pan and zoom the canvas, drag nodes, draw
connections between ports, and collapse groups into single boxes.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newViewCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
