package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo-inline/internal/logging"
	"github.com/idilsaglam/todo-inline/internal/tui"
	"github.com/idilsaglam/todo-inline/internal/watcher"
)

func newTUICmd(a *app) *cobra.Command {
	var watch string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("watch") {
				a.cfg.Watch = watch
			}
			return a.runTUI(cmd, args)
		},
	}
	cmd.Flags().StringVar(&watch, "watch", "", "reload when this file changes (e.g. the server's database)")
	return cmd
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	logger, closer, err := logging.OpenFile(a.cfg.LogFile, a.cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	c, err := a.newClient(logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	board := tui.New(c, tui.Options{Context: ctx, Logger: logger, NotifyFor: a.cfg.NotifyFor})
	p := tea.NewProgram(board, tea.WithAltScreen(), tea.WithContext(ctx))

	if a.cfg.Watch != "" {
		w, err := watcher.New(a.cfg.Watch, func() { p.Send(tui.ReloadMsg{}) })
		if err != nil {
			logger.Warn("live reload disabled", "path", a.cfg.Watch, "err", err)
		} else {
			defer w.Close()
			go w.Run(ctx, func(err error) { logger.Warn("watch error", "err", err) })
		}
	}

	logger.Info("tui started", "server", c.BaseURL())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
