package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the auth core.
type Metrics struct {
	SignInAttempts         *prometheus.CounterVec
	VerificationRecoveries prometheus.Counter
	BackendImportFailures  prometheus.Counter
}

// New creates and registers all metrics on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on a caller-provided registerer, which
// keeps tests independent of global state.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SignInAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "remitauth_signin_attempts_total",
			Help: "Sign-in attempts by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		VerificationRecoveries: factory.NewCounter(prometheus.CounterOpts{
			Name: "remitauth_verification_recoveries_total",
			Help: "Verification attempts recovered via the already-exists ladder",
		}),
		BackendImportFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "remitauth_backend_import_failures_total",
			Help: "Failed backend session import exchanges",
		}),
	}
}

// RecordSignIn counts one sign-in attempt outcome for a strategy.
func (m *Metrics) RecordSignIn(strategy, outcome string) {
	if m == nil {
		return
	}
	m.SignInAttempts.WithLabelValues(strategy, outcome).Inc()
}
