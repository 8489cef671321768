package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/groovy/groovy-eclipse-sub042/internal/driver"
	"github.com/groovy/groovy-eclipse-sub042/internal/observ"
	"github.com/groovy/groovy-eclipse-sub042/internal/ui"
)

// checkWithProgress runs driver.Check while a Bubble Tea view on stderr
// follows the phase events.
func checkWithProgress(cmd *cobra.Command, opts driver.Options, args []string) (*driver.Result, error) {
	events := make(chan observ.Event, len(ui.Phases)*2)
	prev := opts.Observer
	opts.Observer = func(ev observ.Event) {
		if prev != nil {
			prev(ev)
		}
		events <- ev
	}

	model := ui.NewProgressModel("jbind check", events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	uiDone := make(chan error, 1)
	go func() {
		_, err := program.Run()
		uiDone <- err
	}()

	result, err := driver.Check(cmd.Context(), opts, args)
	close(events)
	if uiErr := <-uiDone; uiErr != nil && err == nil {
		err = uiErr
	}
	return result, err
}
