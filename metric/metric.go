package metric

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const CName = "metric"

var log = logger.NewNamed(CName)

type Config struct {
	// Addr is the listen address for the /metrics endpoint. Empty disables
	// the endpoint; the registry still collects.
	Addr string `yaml:"addr"`
}

type configSource interface {
	GetMetric() Config
}

func New() Metric {
	return new(metric)
}

type Metric interface {
	Registry() *prometheus.Registry
	app.ComponentRunnable
}

type metric struct {
	registry *prometheus.Registry
	addr     string
	srv      *http.Server
}

func (m *metric) Init(a *app.App) (err error) {
	m.registry = prometheus.NewRegistry()
	m.addr = a.MustComponent("config").(configSource).GetMetric().Addr
	return
}

func (m *metric) Name() (name string) {
	return CName
}

func (m *metric) Run(ctx context.Context) (err error) {
	if m.addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.srv = &http.Server{Addr: m.addr, Handler: mux}
	go func() {
		if serveErr := m.srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Error("metrics listener failed", zap.Error(serveErr))
		}
	}()
	return
}

func (m *metric) Registry() *prometheus.Registry {
	return m.registry
}

func (m *metric) Close(ctx context.Context) (err error) {
	if m.srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	return m.srv.Shutdown(shutdownCtx)
}
