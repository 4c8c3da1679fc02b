package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/cache"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/source"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the step result interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.tui(cmd.Context())
		},
	}
}

func (a *app) tui(ctx context.Context) error {
	opts, err := a.stepOptions()
	if err != nil {
		return err
	}
	src, err := source.Open(ctx, a.cfg.Source, a.cfg.SourceOptions())
	if err != nil {
		return err
	}

	// Logs would draw over the alternate screen, so the store stays quiet.
	store := cache.New(cache.SourceBuilder(src, opts...), cache.WithTimeout(a.cfg.RecomputeTimeout))

	err = tui.Run(ctx, store)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
