package runner

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestComputeLatencyStats_Empty(t *testing.T) {
	stats := ComputeLatencyStats(nil)
	assert.True(t, stats.IsZero())
	assert.Zero(t, stats.Max)
	assert.NotNil(t, stats.Percentiles)
}

func TestComputeLatencyStats_SingleValue(t *testing.T) {
	stats := ComputeLatencyStats([]time.Duration{ms(10)})

	assert.Equal(t, ms(10), stats.Min)
	assert.Equal(t, ms(10), stats.Max)
	assert.Equal(t, ms(10), stats.Median)
	assert.Equal(t, ms(10), stats.P(99))
	assert.Zero(t, stats.Stddev)
}

func TestComputeLatencyStats_Unsorted(t *testing.T) {
	stats := ComputeLatencyStats([]time.Duration{ms(50), ms(10), ms(30), ms(20), ms(40)})

	assert.Equal(t, ms(10), stats.Min)
	assert.Equal(t, ms(50), stats.Max)
	assert.Equal(t, ms(30), stats.Mean)
	assert.Equal(t, ms(30), stats.Median)
	assert.Equal(t, 5, stats.SampleCount)
	assert.Greater(t, stats.Stddev, time.Duration(0))
}

func TestComputeLatencyStats_DoesNotReorderInput(t *testing.T) {
	in := []time.Duration{ms(3), ms(1), ms(2)}
	ComputeLatencyStats(in)
	assert.Equal(t, []time.Duration{ms(3), ms(1), ms(2)}, in)
}

func TestComputeLatencyStats_Percentiles(t *testing.T) {
	durations := make([]time.Duration, 100)
	for i := range durations {
		durations[i] = ms(i + 1)
	}
	stats := ComputeLatencyStats(durations)

	assert.InDelta(t, float64(ms(50)), float64(stats.P(50)), float64(time.Millisecond))
	assert.InDelta(t, float64(ms(90)), float64(stats.P(90)), float64(time.Millisecond))
	assert.InDelta(t, float64(ms(99)), float64(stats.P(99)), float64(time.Millisecond))
}

func TestLatencyStats_MarshalJSON(t *testing.T) {
	stats := ComputeLatencyStats([]time.Duration{ms(10), ms(20)})

	b, err := json.Marshal(stats)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, 10.0, out["min_ms"])
	assert.Equal(t, 15.0, out["mean_ms"])
	assert.Equal(t, 2.0, out["samples"])
}
