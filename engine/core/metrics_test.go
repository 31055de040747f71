package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsTrackFPSAndFrameTime(t *testing.T) {
	require.NoError(t, MetricsInitialize())

	// Simulate just over one second of steady 60 fps frames.
	const delta = 1.0 / 60.0
	for i := 0; i < 61; i++ {
		MetricsUpdate(delta)
	}

	assert.InDelta(t, 60.0, MetricsFPS(), 2.0)
	assert.InDelta(t, 1000.0/60.0, MetricsFrameTime(), 2.0)

	fps, frameMS := MetricsFrame()
	assert.Equal(t, MetricsFPS(), fps)
	assert.Equal(t, MetricsFrameTime(), frameMS)
}
