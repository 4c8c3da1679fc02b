package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/api"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/cache"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/metrics"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/server"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/source"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/watch"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the step result over HTTP",
		Long: `serve loads the network, performs one step and serves the result at
/api/graphs. The result is recomputed on GET or POST /api/reload, on SIGHUP
and, with --watch, whenever the source file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String("host", "", "listen host")
	flags.Int("port", 0, "listen port")
	flags.Bool("watch", false, "recompute when the source file changes")
	flags.StringSlice("cors-origins", nil, "allowed CORS origins, * for any")

	_ = a.v.BindPFlag("server.host", flags.Lookup("host"))
	_ = a.v.BindPFlag("server.port", flags.Lookup("port"))
	_ = a.v.BindPFlag("watch.enabled", flags.Lookup("watch"))
	_ = a.v.BindPFlag("server.cors_origins", flags.Lookup("cors-origins"))

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	logger := a.logger

	src, err := source.Open(ctx, cfg.Source, cfg.SourceOptions())
	if err != nil {
		return err
	}

	opts, err := a.stepOptions()
	if err != nil {
		return err
	}
	registry := metrics.NewRegistry()
	store := cache.New(cache.SourceBuilder(src, opts...),
		cache.WithLogger(logger),
		cache.WithMetrics(registry),
		cache.WithTimeout(cfg.RecomputeTimeout),
	)

	// A failed initial load still serves; /ready reports 503 until a reload
	// succeeds.
	if _, err := store.Recompute(ctx); err != nil {
		logger.Error("initial load failed", logging.Source(src.Describe()), logging.Error(err))
	}

	reload := func(ctx context.Context) error {
		_, err := store.Recompute(ctx)
		return err
	}

	apiOpts := []api.Option{
		api.WithLogger(logger),
		api.WithMetrics(registry),
		api.WithStepOptions(opts...),
		api.WithCORSOrigins(cfg.Server.CORSOrigins),
		api.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	}
	if cfg.Server.Auth.Enabled() {
		jwtManager, err := a.jwtManager()
		if err != nil {
			return err
		}
		apiOpts = append(apiOpts, api.WithAuth(jwtManager))
		logger.Info("bearer auth enabled for reload and step")
	}
	apiServer := api.NewServer(store, apiOpts...)

	gs := server.NewGracefulServer(cfg.Addr(), apiServer.Handler(),
		server.WithLogger(logger),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		server.WithReloadFunc(reload),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// The watcher stops once the server is gone.
		defer cancel()
		return gs.Run(gctx)
	})

	if cfg.Watch.Enabled {
		w, err := a.watcher(src, reload)
		if err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
		if w != nil {
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	return g.Wait()
}

// watcher returns nil when src is not a local file.
func (a *app) watcher(src source.Source, reload watch.ChangeFunc) (*watch.Watcher, error) {
	fs, ok := src.(*source.FileSource)
	if !ok {
		a.logger.Warn("watch is only supported for local files, ignoring", logging.Source(src.Describe()))
		return nil, nil
	}

	w, err := watch.New(fs.Path(), reload,
		watch.WithLogger(a.logger),
		watch.WithDebounce(a.cfg.Watch.Debounce),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", fs.Path(), err)
	}
	a.logger.Info("watching source for changes", logging.Path(w.Path()))
	return w, nil
}
