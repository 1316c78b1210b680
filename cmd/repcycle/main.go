package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"tailscale.com/tsnet"

	"github.com/meltforce/repcycle/internal/config"
	"github.com/meltforce/repcycle/internal/notify"
	"github.com/meltforce/repcycle/internal/schedule"
	"github.com/meltforce/repcycle/internal/server"
	"github.com/meltforce/repcycle/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("RepCycle starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	notifier := notify.New(db, cfg.Notify.WebhookURL, log)
	engine := schedule.NewEngine(db, notifier, log)

	// Sweep past-dated scheduled workouts to missed on a cron schedule.
	sweeper := cron.New()
	err = sweeper.AddFunc(cfg.Sweep.CronSchedule(), func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		cutoff := time.Now().UTC().Truncate(24 * time.Hour)
		n, err := engine.MarkMissed(sweepCtx, cutoff)
		if err != nil {
			log.Error("missed sweep failed", "error", err)
			return
		}
		if n > 0 {
			log.Info("missed sweep", "marked", n, "cutoff", cutoff.Format("2006-01-02"))
		}
	})
	if err != nil {
		log.Error("invalid sweep schedule", "schedule", cfg.Sweep.CronSchedule(), "error", err)
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Start server over tsnet or plain HTTP.
	var listener net.Listener
	identity := server.DevIdentity

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		identity = server.TailscaleIdentity(func(ctx context.Context, remoteAddr string) (string, string, error) {
			who, err := lc.WhoIs(ctx, remoteAddr)
			if err != nil {
				return "", "", err
			}
			return who.UserProfile.LoginName, who.UserProfile.DisplayName, nil
		}, db)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	srv := server.New(db, engine, cfg.Auth.APIKey, identity, log)
	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
