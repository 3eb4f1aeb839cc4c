package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("completed"))
	RunsTotal.WithLabelValues("completed").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("completed")))

	ActionsTotal.WithLabelValues("vlan", "create", "applied").Add(2)
	assert.GreaterOrEqual(t, testutil.ToFloat64(ActionsTotal.WithLabelValues("vlan", "create", "applied")), 2.0)
}
