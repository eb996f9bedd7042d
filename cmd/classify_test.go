package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/windprox-cli/internal/config"
	"github.com/sells-group/windprox-cli/internal/proximity"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.Proximity.ThresholdKM = 5
	c.Proximity.NearBandKM = 2
	c.Proximity.Method = "planar"
	c.Proximity.UseIndex = true
	c.Store.Driver = "sqlite"
	c.Store.Path = "windprox.db"
	return c
}

func TestClassifyOptions_ConfigDefaults(t *testing.T) {
	cfg = testConfig()
	t.Cleanup(func() { cfg = nil })

	opts := classifyOptions(classifyCmd)

	assert.InDelta(t, 5.0, opts.ThresholdKM, 0.001)
	assert.InDelta(t, 2.0, opts.NearBandKM, 0.001)
	assert.Equal(t, proximity.MethodPlanar, opts.Method)
	assert.True(t, opts.UseIndex)
	assert.Equal(t, 0, opts.Workers)
}

func TestClassifyOptions_FlagOverrides(t *testing.T) {
	cfg = testConfig()
	t.Cleanup(func() {
		cfg = nil
		_ = classifyCmd.Flags().Set("threshold-km", "0")
		_ = classifyCmd.Flags().Set("method", "")
		_ = classifyCmd.Flags().Set("no-index", "false")
		_ = classifyCmd.Flags().Set("workers", "0")
	})

	require.NoError(t, classifyCmd.Flags().Set("threshold-km", "7.5"))
	require.NoError(t, classifyCmd.Flags().Set("method", "haversine"))
	require.NoError(t, classifyCmd.Flags().Set("no-index", "true"))
	require.NoError(t, classifyCmd.Flags().Set("workers", "8"))

	opts := classifyOptions(classifyCmd)

	assert.InDelta(t, 7.5, opts.ThresholdKM, 0.001)
	assert.InDelta(t, 2.0, opts.NearBandKM, 0.001)
	assert.Equal(t, proximity.MethodHaversine, opts.Method)
	assert.False(t, opts.UseIndex)
	assert.Equal(t, 8, opts.Workers)
}
