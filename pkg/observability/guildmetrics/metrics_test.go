package guildmetrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg, "sidecar")
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordEventReceived(ctx, "GuildMemberAdded")
	m.RecordEventReceived(ctx, "GuildMemberAdded")
	m.RecordEventDropped(ctx, "GuildMemberLeft", "foreign_realm")
	m.RecordDispatch(ctx, "GuildMemberAdded", "ok", time.Millisecond)
	m.RecordDispatch(ctx, "GuildMemberAdded", "no_hook", 0)
	m.SetQueueDepth(ctx, 4)

	pm := m.(*prometheusMetrics)
	assert.Equal(t, 2.0, testutil.ToFloat64(pm.received.WithLabelValues("GuildMemberAdded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.dropped.WithLabelValues("GuildMemberLeft", "foreign_realm")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.dispatched.WithLabelValues("GuildMemberAdded", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.dispatched.WithLabelValues("GuildMemberAdded", "no_hook")))
	assert.Equal(t, 4.0, testutil.ToFloat64(pm.queueDepth))
}

func TestNewPrometheusMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMetrics(reg, "sidecar")
	require.NoError(t, err)

	_, err = NewPrometheusMetrics(reg, "sidecar")
	assert.Error(t, err)
}
