package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/capprobe/internal/config"
	"github.com/hamed0406/capprobe/internal/domain"
	"github.com/hamed0406/capprobe/internal/httpapi"
	apimw "github.com/hamed0406/capprobe/internal/httpapi/middleware"
	"github.com/hamed0406/capprobe/internal/logging"
	"github.com/hamed0406/capprobe/internal/notify"
	"github.com/hamed0406/capprobe/internal/probe"
	"github.com/hamed0406/capprobe/internal/report"
	"github.com/hamed0406/capprobe/internal/runner"
)

const shutdownTimeout = 10 * time.Second

// App is the wired harness: one registry, one runner, one reporter.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Registry *probe.Registry
	Runner   *runner.Runner
	Reporter *report.Reporter
}

// New builds the registry from cfg.Probes. Unknown or duplicate probe names
// are returned before anything runs.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg, err := probe.NewCatalog(cfg).BuildConfigured()
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	sink := logging.NewZapSink(logger)
	var opts []report.Option
	if n := notifiers(cfg); len(n) > 0 {
		opts = append(opts, report.WithNotifier(n))
	}
	return &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Runner:   runner.New(sink, runner.WithTimeout(cfg.ProbeTimeout)),
		Reporter: report.New(sink, opts...),
	}, nil
}

func notifiers(cfg config.Config) notify.Multi {
	var m notify.Multi
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		m = append(m, s)
	}
	return m
}

// RunOnce runs every probe and publishes the report. It shares the runner's
// lock with POST /run. A degraded publish is logged and does not fail the run.
func (a *App) RunOnce(ctx context.Context) (*domain.RunReport, error) {
	rep, err := a.Runner.RunAndPublish(ctx, a.Registry, a.Reporter)
	if err != nil {
		var pe *report.PublishError
		if rep == nil || !errors.As(err, &pe) {
			return nil, err
		}
		a.Logger.Warn("publish_degraded", zap.Errors("errors", pe.Errors()))
	}
	return rep, nil
}

// Serve runs the HTTP API until ctx is done, then shuts it down gracefully.
// With RunOnStart set, one run is published right after startup.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	api := httpapi.NewServer(a.Logger, a.Runner, a.Reporter, a.Registry)
	keys := apimw.Keys{Public: a.Config.PublicAPIKeys, Admin: a.Config.AdminAPIKeys}
	srv := &http.Server{
		Handler:           api.Router(keys, a.Config.AllowedOrigins, a.Config.AdminRPM, a.Config.AdminBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("api_listen", zap.String("addr", ln.Addr().String()), zap.Strings("probes", a.Registry.Names()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	if a.Config.RunOnStart {
		g.Go(func() error {
			rep, err := a.RunOnce(gctx)
			if err != nil {
				return fmt.Errorf("initial run: %w", err)
			}
			a.Logger.Info("initial_run", zap.String("status", string(rep.Status())))
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("api_shutdown")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
