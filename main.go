package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/olivier-w/snkscrub/internal/cli"
	"github.com/olivier-w/snkscrub/internal/ui"
)

func main() {
	root := cli.NewRootCommand(play)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}

// play runs the interactive scrubber. With no argument it starts in the
// chain picker.
func play(cmd *cobra.Command, opts *cli.RootOptions, args []string) error {
	log, closeLog, err := cli.SetupLogging(opts, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	open := newOpener(cmd, opts, log)

	var model tea.Model
	if len(args) == 0 {
		browser := newStartupModel(open)
		if browser.browser.HasError() {
			return browser.browser.Error()
		}
		model = browser
	} else {
		m, err := open(args[0])
		if err != nil {
			return err
		}
		model = m
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if m, ok := final.(ui.Model); ok {
		m.Dispose()
	}
	if err != nil {
		return fmt.Errorf("run scrubber: %w", err)
	}
	return nil
}
