package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/health"
)

const HealthCheckJob JobName = "backend-health"

var (
	backendUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "frontdesk_backend_up",
		Help: "1 when the last booking API probe succeeded.",
	})
	backendProbeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "frontdesk_backend_probe_duration_seconds",
		Help:    "Duration of booking API health probes.",
		Buckets: prometheus.DefBuckets,
	})
)

// Pinger is the part of the backend client the probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterHealthCheckJob probes the booking API on cronExpr and records the
// outcome in status. The first probe runs as soon as the scheduler starts so
// the banner is accurate before the first tick.
func RegisterHealthCheckJob(pinger Pinger, status *health.Status, cronExpr string, timeout time.Duration) error {
	if pinger == nil || status == nil {
		return fmt.Errorf("health check job requires a client and a status")
	}

	probe := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		checkBackend(ctx, pinger, status, time.Now)
	}

	_, err := AddJob(HealthCheckJob, cronExpr, probe, JobOptions{RunImmediately: true})
	return err
}

// checkBackend runs one probe. State changes are logged at info/warn level;
// steady state only at debug.
func checkBackend(ctx context.Context, pinger Pinger, status *health.Status, now func() time.Time) {
	logger := log.Ctx(ctx)
	wasReachable := status.Reachable()

	started := now()
	err := pinger.Ping(ctx)
	backendProbeDuration.Observe(now().Sub(started).Seconds())

	status.Record(now(), err, backend.Message(err))

	if err != nil {
		backendUp.Set(0)
		if wasReachable {
			logger.Warn().Err(err).Msg("Booking API became unreachable")
		} else {
			logger.Debug().Err(err).Msg("Booking API still unreachable")
		}
		return
	}

	backendUp.Set(1)
	if !wasReachable {
		logger.Info().Msg("Booking API reachable again")
	} else {
		logger.Debug().Msg("Booking API reachable")
	}
}
