package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"sanctuary/internal/core"
	"sanctuary/internal/intake"
	"sanctuary/internal/telemetry"
)

// session is one configured service plus the observability it feeds.
type session struct {
	svc       *core.Service
	logger    *slog.Logger
	expvar    *core.ExpvarMetricsRecorder
	registry  *prometheus.Registry
	telemetry *telemetry.Provider
}

func (a *app) newSession() (*session, error) {
	logger := slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: a.cfg.LogLevel()}))

	tp, err := telemetry.NewProvider(telemetry.Config{
		Enabled:  a.cfg.Tracing.Enabled,
		Exporter: a.cfg.Tracing.Exporter,
		Writer:   a.stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	registry := prometheus.NewRegistry()
	prom, err := core.NewPrometheusMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	exp := core.NewExpvarMetricsRecorder(a.cfg.Metrics.ExpvarName)

	opts := []core.Option{
		core.WithLogger(logger),
		core.WithMetricsRecorder(core.MultiMetricsRecorder{exp, prom}),
		core.WithTracer(core.NewOTelTracer(tp.Tracer())),
		core.WithIsolationAccounting(a.cfg.Accounting()),
	}
	if a.audit {
		opts = append(opts, core.WithAuditRecorder(core.NewAuditLog(a.stderr)))
	}
	return &session{
		svc:       core.NewService(nil, opts...),
		logger:    logger,
		expvar:    exp,
		registry:  registry,
		telemetry: tp,
	}, nil
}

func (s *session) close(ctx context.Context) error {
	return s.telemetry.Shutdown(ctx)
}

// writeMetrics prints per-operation outcomes and the exported Prometheus
// families.
func (s *session) writeMetrics(w io.Writer) error {
	snap := s.expvar.Snapshot()
	ops := make([]string, 0, len(snap.Results))
	for op := range snap.Results {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	fmt.Fprintln(w, "Operations:")
	for _, op := range ops {
		res := snap.Results[op]
		fmt.Fprintf(w, "  %-28s success=%d error=%d\n", op, res[string(core.AuditStatusSuccess)], res[string(core.AuditStatusError)])
	}
	families, err := s.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	fmt.Fprintln(w, "Metric families:")
	for _, mf := range families {
		fmt.Fprintf(w, "  %s (%d series)\n", mf.GetName(), len(mf.GetMetric()))
	}
	return nil
}

// loadManifest reads the manifest named by args, or the embedded demo.
func loadManifest(args []string) (*intake.Manifest, error) {
	if len(args) == 0 {
		return intake.Demo(), nil
	}
	return intake.Load(args[0])
}

// replay applies the manifest and reports refused arrivals to w.
func (a *app) replay(ctx context.Context, args []string, w io.Writer) (*session, intake.Outcome, error) {
	m, err := loadManifest(args)
	if err != nil {
		return nil, intake.Outcome{}, err
	}
	s, err := a.newSession()
	if err != nil {
		return nil, intake.Outcome{}, err
	}
	out, err := intake.Apply(ctx, s.svc, m)
	if err != nil {
		return nil, out, errors.Join(err, s.close(ctx))
	}
	for _, r := range out.Rejections {
		s.logger.Debug("intake rejection", "step", r.Step, "animal", r.Animal, "error", r.Err)
		if w != nil {
			fmt.Fprintf(w, "Rejected: %s\n", r)
		}
	}
	return s, out, nil
}
