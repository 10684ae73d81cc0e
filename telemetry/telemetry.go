package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/armon/go-metrics"
	prometheusMetrics "github.com/armon/go-metrics/prometheus"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

const (
	serviceName = "cip68"

	inmemInterval  = 10 * time.Second
	inmemRetention = time.Minute
)

type TelemetryConfig struct {
	PrometheusAddr string `json:"prometheusAddr"` // empty means disabled otherwise something like 0.0.0.0:5001
	DataDogAddr    string `json:"dataDogAddr"`    // empty means disabled otherwise something like localhost:8126
	// ScrapeGracePeriod keeps the prometheus endpoint alive after the command finished
	ScrapeGracePeriod time.Duration `json:"scrapeGracePeriod"`
}

// Telemetry collects lifecycle metrics in memory and optionally exposes them
type Telemetry struct {
	prometheusServer *http.Server
	inmem            *metrics.InmemSink
	config           TelemetryConfig
	logger           hclog.Logger
}

// NewTelemetry installs the global metrics sink. Prometheus collectors live in their own registry.
func NewTelemetry(config TelemetryConfig, logger hclog.Logger) (*Telemetry, error) {
	t := &Telemetry{
		inmem:  metrics.NewInmemSink(inmemInterval, inmemRetention),
		config: config,
		logger: logger,
	}

	sinks := metrics.FanoutSink{t.inmem}

	if config.PrometheusAddr != "" {
		registry := prometheus.NewRegistry()

		promSink, err := prometheusMetrics.NewPrometheusSinkFrom(prometheusMetrics.PrometheusOpts{
			Name:       "cip68_prometheus_sink",
			Expiration: 0,
			Registerer: registry,
		})
		if err != nil {
			return nil, err
		}

		sinks = append(sinks, promSink)
		t.prometheusServer = setupPrometheus(config.PrometheusAddr, registry)
	}

	metricsConf := metrics.DefaultConfig(serviceName)
	metricsConf.EnableHostname = false
	metricsConf.EnableRuntimeMetrics = false

	if _, err := metrics.NewGlobal(metricsConf, sinks); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Telemetry) Start() error {
	if t.config.DataDogAddr != "" {
		if err := t.startDataDogProfiler(); err != nil {
			return err
		}
	}

	if t.prometheusServer != nil {
		go t.startPrometheus()
	}

	return nil
}

// Close stops exporters. A running prometheus endpoint is kept for the scrape grace period first.
func (t *Telemetry) Close(ctx context.Context) error {
	if t.prometheusServer != nil {
		if t.config.ScrapeGracePeriod > 0 {
			t.logger.Info("Waiting for the final scrape", "period", t.config.ScrapeGracePeriod)

			select {
			case <-ctx.Done():
			case <-time.After(t.config.ScrapeGracePeriod):
			}
		}

		t.logger.Info("Prometheus server stopping", "addr", t.prometheusServer.Addr)

		if err := t.prometheusServer.Shutdown(ctx); err != nil {
			return err
		}
	}

	if t.config.DataDogAddr != "" {
		profiler.Stop()
		tracer.Stop()
	}

	return nil
}

func (t *Telemetry) IsEnabled() bool {
	return t.config.DataDogAddr != "" || t.config.PrometheusAddr != ""
}

// Counters returns the sum of every counter collected in memory during the retention window
func (t *Telemetry) Counters() map[string]float64 {
	result := map[string]float64{}

	for _, interval := range t.inmem.Data() {
		interval.RLock()

		for name, value := range interval.Counters {
			result[name] += value.Sum
		}

		interval.RUnlock()
	}

	return result
}

func (t *Telemetry) startPrometheus() {
	t.logger.Info("Prometheus server started", "addr", t.config.PrometheusAddr)

	if err := t.prometheusServer.ListenAndServe(); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			t.logger.Error("Prometheus server ListenAndServe error", "err", err)
		}
	}
}

func (t *Telemetry) startDataDogProfiler() error {
	err := profiler.Start(
		profiler.WithService(serviceName),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
			profiler.GoroutineProfile,
		),
		profiler.WithAgentAddr(t.config.DataDogAddr),
	)
	if err != nil {
		return fmt.Errorf("could not start datadog profiler: %w", err)
	}

	tracer.Start(tracer.WithService(serviceName), tracer.WithAgentAddr(t.config.DataDogAddr))

	t.logger.Info("DataDog profiler started", "addr", t.config.DataDogAddr)

	return nil
}

func setupPrometheus(prometheusAddr string, registry *prometheus.Registry) *http.Server {
	return &http.Server{
		Addr: prometheusAddr,
		Handler: promhttp.InstrumentMetricHandler(
			registry, promhttp.HandlerFor(
				registry,
				promhttp.HandlerOpts{},
			),
		),
		ReadHeaderTimeout: 60 * time.Second,
	}
}
