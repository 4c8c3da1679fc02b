package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/config"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/reduction"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/visualization"
)

// app carries state shared by every subcommand. cfg and logger are set in
// the root PersistentPreRunE, after flags have been parsed.
type app struct {
	v       *viper.Viper
	cfgFile string
	stdout  io.Writer
	stderr  io.Writer

	cfg    *config.Config
	logger logging.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      config.New(),
		stdout: stdout,
		stderr: stderr,
	}

	rootCmd := &cobra.Command{
		Use:   "girvan-newman",
		Short: "Find communities by removing the highest-betweenness edge",
		Long: `girvan-newman scores every edge of an undirected network by shortest-path
betweenness, removes the highest scoring edge and reports the connected
components that remain.

Settings are read from flags, GIRVAN_* environment variables and an
optional girvan.yaml file, in that order of precedence.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./girvan.yaml or ~/girvan.yaml)")
	flags.String("source", "", "network file path or s3://bucket/key")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Int("top-edges", 0, "number of ranked edges to report")
	flags.String("aws-region", "", "AWS region for s3:// sources")

	a.bind(rootCmd, "source", "source")
	a.bind(rootCmd, "log.level", "log-level")
	a.bind(rootCmd, "top_edges", "top-edges")
	a.bind(rootCmd, "aws.region", "aws-region")

	rootCmd.AddCommand(newServeCmd(a), newStepCmd(a), newTUICmd(a), newTokenCmd(a))
	return rootCmd
}

// bind ties a viper key to a persistent flag. Viper only prefers the flag
// over env and file values once it has been set on the command line.
func (a *app) bind(cmd *cobra.Command, key, flag string) {
	_ = a.v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag))
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewJSONLogger(a.stderr, cfg.LogLevel())
	logging.SetDefaultLogger(a.logger)

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("config file loaded", logging.Path(used))
	}
	return nil
}

// stepOptions translates configuration into reduction options.
func (a *app) stepOptions() ([]reduction.Option, error) {
	opts := []reduction.Option{reduction.WithTopEdges(a.cfg.TopEdges)}
	if !a.cfg.Layout.FillMissing {
		return opts, nil
	}

	lc := a.cfg.Layout
	layout, err := visualization.New(lc.Algorithm, &visualization.LayoutConfig{
		Width:      lc.Width,
		Height:     lc.Height,
		Padding:    lc.Padding,
		Iterations: lc.Iterations,
		Seed:       lc.Seed,
	})
	if err != nil {
		return nil, err
	}
	return append(opts, reduction.WithLayout(layout)), nil
}
