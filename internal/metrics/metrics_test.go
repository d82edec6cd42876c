package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	p.SessionCreated("hard", true)
	p.SessionCreated("hard", true)
	p.SessionCreated("regular", false)
	p.AnswerCommitted("hard", 0.75)
	p.SessionCompleted("hard")
	p.SessionsActive(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.created.WithLabelValues("hard", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.created.WithLabelValues("regular", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.committed.WithLabelValues("hard")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.completed.WithLabelValues("hard")))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.active))
	assert.Equal(t, 1, testutil.CollectAndCount(p.scores))

	_, err = NewPrometheus(reg)
	assert.Error(t, err, "registering twice fails")
}

func TestNoop(t *testing.T) {
	r := NewNoop()
	assert.NotPanics(t, func() {
		r.SessionCreated("regular", false)
		r.AnswerCommitted("regular", 1)
		r.SessionCompleted("regular")
		r.SessionsActive(1)
	})
}
