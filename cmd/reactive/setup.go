package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/reactive/internal/config"
	"github.com/vango-dev/reactive/internal/demo"
	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/internal/store"
	"github.com/vango-dev/reactive/pkg/dom"
	"github.com/vango-dev/reactive/pkg/element"
	"github.com/vango-dev/reactive/pkg/telemetry"
)

// app is a registry with the demo components and the observers the
// config asks for.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	reg      *element.Registry
	metrics  *telemetry.Metrics
	gatherer *prometheus.Registry
	store    *store.Store
}

func newApp(ctx context.Context, cfg *config.Config, withMetrics bool) (*app, error) {
	rt := &app{
		cfg:    cfg,
		logger: cfg.Logger(os.Stderr),
	}

	observers := []element.Observer{telemetry.NewLogging(rt.logger, slog.LevelDebug)}
	if withMetrics && cfg.MetricsEnabled() {
		rt.gatherer = prometheus.NewRegistry()
		rt.gatherer.MustRegister(collectors.NewGoCollector())
		rt.metrics = telemetry.NewMetrics(
			telemetry.WithNamespace(cfg.Telemetry.Namespace),
			telemetry.WithRegistry(rt.gatherer),
		)
		observers = append(observers, rt.metrics)
	}
	if cfg.Telemetry.Tracing {
		observers = append(observers, telemetry.NewTracing(telemetry.WithParentContext(ctx)))
	}
	if path := cfg.StorePath(); path != "" {
		s, err := store.Open(ctx, path, store.WithLogger(rt.logger))
		if err != nil {
			return nil, err
		}
		rt.store = s
		observers = append(observers, s.Observer(ctx))
	}

	rt.reg = element.NewRegistry(
		element.WithLogger(rt.logger),
		element.WithObserver(telemetry.Multi(observers...)),
	)
	if err := demo.Register(rt.reg); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// load parses a page, restores stored properties and upgrades it. An empty
// path or "-" reads the demo page or stdin respectively.
func (rt *app) load(ctx context.Context, path string) (*dom.Document, error) {
	var r io.Reader
	switch path {
	case "":
		r = strings.NewReader(demo.Page)
	case "-":
		r = os.Stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Newf(errors.CategoryCLI, "open page: %v", err)
		}
		defer f.Close()
		r = f
	}

	doc, err := dom.Parse(r, dom.WithUpgrader(rt.reg), dom.WithLogger(rt.logger))
	if err != nil {
		return nil, errors.Newf(errors.CategoryCLI, "parse page: %v", err)
	}
	if rt.store != nil {
		if _, err := rt.store.Restore(ctx, doc, rt.reg); err != nil {
			return nil, err
		}
	}
	doc.Upgrade()
	return doc, nil
}

func (rt *app) Close() {
	if rt.store != nil {
		rt.store.Close()
	}
}
