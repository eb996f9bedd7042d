package model

import "time"

// RunStatus tracks the lifecycle of a classification run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunParams records the inputs and tunables of a classification run.
type RunParams struct {
	PointsPath  string  `json:"points_path"`
	RegionsPath string  `json:"regions_path"`
	ThresholdKM float64 `json:"threshold_km"`
	NearBandKM  float64 `json:"near_band_km"`
	Method      string  `json:"method"`
}

// Run is a persisted classification run.
type Run struct {
	ID        string             `json:"id"`
	Params    RunParams          `json:"params"`
	Status    RunStatus          `json:"status"`
	Summary   *SummaryStatistics `json:"summary,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
