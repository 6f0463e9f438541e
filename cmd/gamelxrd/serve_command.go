package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"gamelxrd/internal/catalogcache"
	"gamelxrd/internal/config"
	"gamelxrd/internal/httpapi"
	"gamelxrd/internal/logging"
	"gamelxrd/internal/metrics"
	"gamelxrd/internal/services/twitch"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	var offline bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: "Run the HTTP API. Without TMDB and RAWG keys (or with --offline) the server " +
			"only prices descriptors posted to /api/quote.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), ctx, bind, offline, func(addr string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", addr)
			})
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default: paths.api_bind)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Disable catalog lookups")
	return cmd
}

// runServer holds the instance lock, serves until ctx is cancelled and then
// shuts the server down. ready is called once the listener is bound.
func runServer(runCtx context.Context, ctx *commandContext, bind string, offline bool, ready func(addr string)) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = logging.NewComponentLogger(logger, "serve")

	lockPath := cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return fmt.Errorf("ensure lock directory: %w", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another gamelxrd server is already running (lock " + lockPath + ")")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release server lock", logging.Error(err))
		}
	}()

	engine, err := ctx.engine()
	if err != nil {
		return err
	}
	reg := metrics.NewRegistry()
	opts := httpapi.Options{
		Bind:        strings.TrimSpace(bind),
		CheckoutURL: cfg.Pricing.CheckoutURL,
		Engine:      engine,
		Metrics:     reg,
		Logger:      logger,
		Version:     version,
	}
	if opts.Bind == "" {
		opts.Bind = cfg.Paths.APIBind
	}

	opts.Channel = cfg.Twitch.Channel
	if !offline {
		if stream := newStreamChecker(cfg, logger); stream != nil {
			opts.Stream = stream
		}
	}

	if !offline {
		if err := cfg.RequireCatalog(); err != nil {
			logging.WarnWithContext(logger, "catalog disabled", "catalog_unconfigured",
				logging.Error(err),
				logging.Hint("set tmdb.api_key and rawg.api_key"),
				logging.Impact("only POST /api/quote is available"),
			)
			offline = true
		}
	}
	if !offline {
		svc, store, cleanup, err := ctx.catalogService(logger, reg)
		defer cleanup()
		if err != nil {
			return err
		}
		opts.Catalog = svc
		if store != nil {
			opts.Cache = store
		}
	}

	server := httpapi.New(opts)
	serveCtx, cancel := context.WithCancel(runCtx)
	defer cancel()
	if err := server.Start(serveCtx); err != nil {
		return err
	}
	logServerStart(logger, server.Addr(), lockPath, opts)
	if ready != nil {
		ready(server.Addr())
	}

	<-serveCtx.Done()
	server.Stop()
	logger.Info("gamelxrd server stopped")
	return nil
}

// newStreamChecker returns nil when Twitch credentials are absent or unusable.
func newStreamChecker(cfg *config.Config, logger *slog.Logger) *twitch.Client {
	if !cfg.Twitch.Configured() {
		return nil
	}
	client, err := twitch.New(cfg.Twitch.ClientID, cfg.Twitch.ClientSecret, cfg.Twitch.TokenURL, cfg.Twitch.BaseURL)
	if err != nil {
		logging.WarnWithContext(logger, "stream check disabled", "stream_unconfigured",
			logging.Error(err),
			logging.Impact("/api/stream always reports offline"),
		)
		return nil
	}
	return client
}

func logServerStart(logger *slog.Logger, addr, lockPath string, opts httpapi.Options) {
	attrs := []logging.Attr{
		logging.String("address", addr),
		logging.String("lock", lockPath),
		logging.Bool("catalog", opts.Catalog != nil),
		logging.Bool("stream", opts.Stream != nil),
	}
	if store, ok := opts.Cache.(*catalogcache.Store); ok {
		attrs = append(attrs, logging.String("cache", store.Path()))
	}
	logger.Info("gamelxrd server started", logging.Args(attrs...)...)
}
