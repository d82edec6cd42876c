// Package metrics records game activity as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what the session service reports to.
type Recorder interface {
	SessionCreated(tier string, plus bool)
	AnswerCommitted(tier string, score float64)
	SessionCompleted(tier string)
	SessionsActive(n int)
}

// Prometheus implements Recorder on a caller-supplied registry.
type Prometheus struct {
	created   *prometheus.CounterVec
	committed *prometheus.CounterVec
	completed *prometheus.CounterVec
	scores    *prometheus.HistogramVec
	active    prometheus.Gauge
}

// NewPrometheus creates and registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colorguess",
			Name:      "sessions_created_total",
			Help:      "Sessions started, by tier and plus mode.",
		}, []string{"tier", "plus"}),
		committed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colorguess",
			Name:      "answers_committed_total",
			Help:      "Answers committed, by tier.",
		}, []string{"tier"}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colorguess",
			Name:      "sessions_completed_total",
			Help:      "Sessions played to the end, by tier.",
		}, []string{"tier"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "colorguess",
			Name:      "answer_score",
			Help:      "Primary score of committed answers.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}, []string{"tier"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "colorguess",
			Name:      "sessions_active",
			Help:      "Sessions currently held in memory.",
		}),
	}
	for _, c := range []prometheus.Collector{p.created, p.committed, p.completed, p.scores, p.active} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) SessionCreated(tier string, plus bool) {
	label := "false"
	if plus {
		label = "true"
	}
	p.created.WithLabelValues(tier, label).Inc()
}

func (p *Prometheus) AnswerCommitted(tier string, score float64) {
	p.committed.WithLabelValues(tier).Inc()
	p.scores.WithLabelValues(tier).Observe(score)
}

func (p *Prometheus) SessionCompleted(tier string) {
	p.completed.WithLabelValues(tier).Inc()
}

func (p *Prometheus) SessionsActive(n int) { p.active.Set(float64(n)) }

type noop struct{}

// NewNoop returns a Recorder that discards everything.
func NewNoop() Recorder { return noop{} }

func (noop) SessionCreated(string, bool)     {}
func (noop) AnswerCommitted(string, float64) {}
func (noop) SessionCompleted(string)         {}
func (noop) SessionsActive(int)              {}
