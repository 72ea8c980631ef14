// Package metrics exposes Prometheus instrumentation for the VIS server.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	log "github.com/Goden-Gun/vis-server/pkg/logger"
)

// Stat holds the server-wide collectors.
type Stat struct {
	Uptime            prometheus.Counter
	ActiveConnections prometheus.Gauge
	Requests          *prometheus.CounterVec
	Errors            *prometheus.CounterVec
	Notifications     prometheus.Counter
	PublishDuration   *prometheus.HistogramVec
	ConsumeDuration   *prometheus.HistogramVec
}

// New builds the collector set. Call Register before serving.
func New() *Stat {
	return &Stat{
		Uptime:            prometheus.NewCounter(prometheus.CounterOpts{Name: "vis_uptime_seconds", Help: "The uptime in seconds"}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{Name: "vis_active_client_count", Help: "The active number of WebSocket clients"}),
		Requests:          prometheus.NewCounterVec(prometheus.CounterOpts{Name: "vis_requests_total", Help: "The total number of client requests by action"}, []string{"action"}),
		Errors:            prometheus.NewCounterVec(prometheus.CounterOpts{Name: "vis_errors_total", Help: "The total number of error responses by reason"}, []string{"action", "reason"}),
		Notifications:     prometheus.NewCounter(prometheus.CounterOpts{Name: "vis_notifications_total", Help: "The total number of subscription notifications sent"}),
		PublishDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "vis_kafka_publish_seconds", Help: "Kafka publish latency"}, []string{"topic", "result"}),
		ConsumeDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "vis_kafka_consume_seconds", Help: "Kafka consume processing latency"}, []string{"topic", "group", "result"}),
	}
}

// Register installs the collectors on the default registry.
func (s *Stat) Register() {
	prometheus.MustRegister(s.Uptime)
	prometheus.MustRegister(s.ActiveConnections)
	prometheus.MustRegister(s.Requests)
	prometheus.MustRegister(s.Errors)
	prometheus.MustRegister(s.Notifications)
	prometheus.MustRegister(s.PublishDuration)
	prometheus.MustRegister(s.ConsumeDuration)
}

// RefreshUptime increments the uptime counter once per second until ctx ends.
func (s *Stat) RefreshUptime(ctx context.Context) {
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				s.Uptime.Inc()
			}
		}
	}()
}

// ObservePublish satisfies kafka.PublishObserver.
func (s *Stat) ObservePublish(topic string, duration time.Duration, err error) {
	s.PublishDuration.WithLabelValues(topic, result(err)).Observe(duration.Seconds())
}

// ObserveConsume satisfies kafka.ConsumeObserver.
func (s *Stat) ObserveConsume(topic, group, _ string, duration time.Duration, err error) {
	s.ConsumeDuration.WithLabelValues(topic, group, result(err)).Observe(duration.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
