package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NordCoder/Exposerus/internal/app"
	config "github.com/NordCoder/Exposerus/internal/config/notifier"
	"github.com/NordCoder/Exposerus/internal/obs"
	"github.com/NordCoder/Exposerus/internal/services/admin"
	"github.com/NordCoder/Exposerus/internal/services/registrar"
	"github.com/NordCoder/Exposerus/internal/services/scheduler"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "config/notifier.yaml", "path to config file")
	flag.Parse()

	// init
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := obs.NewLogger(cfg.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()
	zap.ReplaceGlobals(l)
	l.Info("starting notifier",
		zap.String("tz", cfg.TZ),
		zap.String("metrics_addr", cfg.Server.MetricsAddr),
		zap.String("admin_addr", cfg.Server.AdminAddr),
	)

	// otel
	otelCloser, err := obs.SetupOTel(ctx, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// stores and transport
	deps, err := app.Build(ctx, cfg, l, app.Options{})
	if err != nil {
		l.Fatal("bootstrap", zap.Error(err))
	}
	defer deps.Close()

	// run metrics server
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, deps.Health, l)

	// wiring
	loc, err := cfg.Location()
	if err != nil {
		l.Fatal("timezone", zap.Error(err))
	}
	sched := scheduler.New(loc, l)
	named, jobs, err := deps.EnabledJobs()
	if err != nil {
		l.Fatal("build jobs", zap.Error(err))
	}
	for i, j := range jobs {
		if err := sched.Add(scheduler.NewJob(named[i].Name, named[i].CronTime, j.Execute).WithLogger(l)); err != nil {
			l.Fatal("schedule job", zap.Error(err))
		}
	}

	if cfg.Telegram.Polling {
		reg := registrar.New(deps.Subscribers, cfg.Telegram.SubscriberRegion, cfg.Jobs.Channels()).WithLogger(l)
		deps.Telegram.OnStart(reg.HandleStart)
		go deps.Telegram.Start(ctx)
	}

	adminSrv := admin.NewServer(cfg.Server.AdminAddr, sched, l)
	adminErrCh := make(chan error, 1)
	go func() {
		l.Info("admin api listening", zap.String("addr", cfg.Server.AdminAddr))
		adminErrCh <- adminSrv.ListenAndServe()
	}()

	// run
	schedErrCh := make(chan error, 1)
	go func() { schedErrCh <- sched.Run(ctx) }()

	// loop
	select {
	case <-ctx.Done():
		l.Info("shutdown signal")
	case err = <-adminErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("admin serve", zap.Error(err))
		}
		stop()
	}

	// graceful shutdown
	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	_ = adminSrv.Shutdown(shCtx)
	select {
	case err = <-schedErrCh:
		if err != nil {
			l.Error("scheduler", zap.Error(err))
		}
	case <-shCtx.Done():
		l.Warn("jobs still running at shutdown deadline")
	}
	_ = ms.Shutdown(shCtx)

	time.Sleep(100 * time.Millisecond)
	l.Info("bye")
}
