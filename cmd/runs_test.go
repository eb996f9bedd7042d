package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/windprox-cli/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	count := 42
	runs := []model.Run{
		{
			ID: "abc12345-6789-0000-0000-000000000000",
			Params: model.RunParams{
				PointsPath:  "turbines.geojson",
				RegionsPath: "regions.shp",
			},
			Status:    model.RunStatusComplete,
			Summary:   &model.SummaryStatistics{Count: count},
			CreatedAt: now,
			UpdatedAt: now.Add(2 * time.Minute),
		},
		{
			ID: "def12345-6789-0000-0000-000000000000",
			Params: model.RunParams{
				PointsPath:  "turbines.geojson",
				RegionsPath: "regions.shp",
			},
			Status:    model.RunStatusRunning,
			CreatedAt: now.Add(-1 * time.Hour),
			UpdatedAt: now.Add(-30 * time.Minute),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "RETAINED")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "running")
	assert.Contains(t, output, "42")
	assert.Contains(t, output, "turbines.geojson")
	assert.Contains(t, output, "2026-03-15 10:30")
	assert.Contains(t, output, "abc12345")
}

func TestFormatRunsList_FailedRunWithoutSummary(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID: "abc12345-6789-0000-0000-000000000000",
			Params: model.RunParams{
				PointsPath:  "turbines.geojson",
				RegionsPath: "regions.shp",
			},
			Status:    model.RunStatusFailed,
			Error:     "gis: load regions: open regions.shp",
			CreatedAt: now,
			UpdatedAt: now.Add(30 * time.Second),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	assert.Contains(t, buf.String(), "failed")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789-0000-0000-000000000000"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "regions.shp", truncatePath("regions.shp"))

	long := "/data/projects/wind/2026/northern-region/regions.shp"
	got := truncatePath(long)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.Equal(t, 30, len(got))
	assert.True(t, strings.HasSuffix(got, "regions.shp"))
}
