package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rpgo/actuarial-calculator/internal/api"
	"github.com/rpgo/actuarial-calculator/internal/cache"
	"github.com/rpgo/actuarial-calculator/internal/config"
	"github.com/rpgo/actuarial-calculator/internal/log"
)

const memoryCacheEntries = 10000

func newServeCmd(a *app) *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators over HTTP",
		Long: `Serve exposes every calculation as a JSON endpoint under /api/v1.

Settings come from an optional config file, a .env file and ACTCALC_*
environment variables (ACTCALC_ADDR, ACTCALC_REDIS_ADDR, ACTCALC_RATE_LIMIT, ...).
Results are cached in Redis when ACTCALC_REDIS_ADDR is set, in memory otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig(configFile)
			if err != nil {
				return err
			}
			return a.serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "server config file (yaml, json or toml)")
	return cmd
}

func (a *app) serve(parent context.Context, cfg *config.ServerConfig) error {
	logCfg := log.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	logCfg.FilePath = cfg.LogFile
	logCfg.Component = log.ComponentHTTP
	logger, err := log.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	log.SetDefault(logger)

	a.engine.SetLogger(logger.WithComponent(log.ComponentEngine))
	cacheLog := logger.WithComponent(log.ComponentCache)

	var store cache.Cache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
		defer rc.Close()
		if err := rc.Ping(parent); err != nil {
			return err
		}
		cacheLog.Infof("using redis cache at %s", cfg.RedisAddr)
		store = rc
	} else {
		cacheLog.Infof("using in-memory cache (ttl %s)", cfg.CacheTTL)
		store = cache.NewMemoryCache(cfg.CacheTTL, memoryCacheEntries)
	}

	var limiter *api.ClientLimiter
	if cfg.RateLimit > 0 {
		limiter = api.NewClientLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	server := api.NewServer(api.Options{Engine: a.engine, Cache: store, Limiter: limiter, Logger: logger})
	httpServer := &http.Server{Addr: cfg.Addr, Handler: server.Handler()}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownWait)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", log.FieldError, err)
		return err
	}
	return nil
}
