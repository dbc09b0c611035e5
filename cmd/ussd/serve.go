package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jawabu/ussd"
	"github.com/jawabu/ussd/internal/config"
	"github.com/jawabu/ussd/internal/logging"
	redisadapter "github.com/jawabu/ussd/pkg/adapters/redis"

	httpadapter "github.com/jawabu/ussd/pkg/adapters/http"
	"github.com/jawabu/ussd/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway HTTP server",
	Long:  `Starts the dialog engine behind a gateway-style HTTP endpoint, with sessions in Redis.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Listen = listen
		}

		logger := logging.New(parseLevel(cfg.Log.Level))

		cache, err := openCache(cfg.Redis)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		app, err := ussd.New(demoRouter(), cache,
			ussd.WithLogger(logger),
			ussd.WithMetrics(reg),
			ussd.WithConfig(ussd.Config{
				SessionKeyPrefix: cfg.Session.KeyPrefix,
				SessionTTL:       cfg.Session.TTL.Std(),
				ScreenStateTTL:   cfg.Session.StateTTL.Std(),
				MaxPageLength:    cfg.Screen.MaxPageLength,
			}),
		)
		if err != nil {
			return err
		}
		defer app.Close()

		srv := &http.Server{
			Addr: cfg.Listen,
			Handler: httpadapter.NewHandler(app, httpadapter.Options{
				Gatherer: reg,
				Logger:   logger,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown incomplete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("closing server: %w", err)
				}
			}
			logger.Info("server stopped")
		}
		return nil
	},
}

func openCache(cfg config.Redis) (ports.Cache, error) {
	if cfg.URL != "" {
		return redisadapter.NewFromURL(cfg.URL)
	}
	return redisadapter.New(cfg.Addr, cfg.Password, cfg.DB), nil
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Listen address (overrides the config file)")
}
