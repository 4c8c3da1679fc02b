package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/cache"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/report"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/source"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/validation"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

type stepFlags struct {
	Format string `json:"format" validate:"oneof=json yaml text"`
}

func newStepCmd(a *app) *cobra.Command {
	f := &stepFlags{}

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Perform one step and print the result",
		Example: `  girvan-newman step --source data/samplenetwork.txt
  girvan-newman step --format json | jq .original.removedEdge`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.Struct(f); err != nil {
				return err
			}
			return a.step(cmd.Context(), f.Format)
		},
	}
	cmd.Flags().StringVarP(&f.Format, "format", "o", FormatText, "output format: json, yaml or text")

	return cmd
}

func (a *app) step(ctx context.Context, format string) error {
	opts, err := a.stepOptions()
	if err != nil {
		return err
	}
	src, err := source.Open(ctx, a.cfg.Source, a.cfg.SourceOptions())
	if err != nil {
		return err
	}

	timer := logging.StartTimer(a.logger, "step", logging.Source(src.Describe()))
	build, err := cache.SourceBuilder(src, opts...)(ctx)
	if err != nil {
		timer.EndError(err)
		return err
	}
	timer.End()

	if build.Skipped > 0 {
		a.logger.Warn("skipped malformed lines", logging.Int("skipped", build.Skipped))
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(build.Result)
	case FormatYAML:
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(build.Result); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		return report.Render(a.stdout, build.Result)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
