package report

import (
	"fmt"
	"io"

	"github.com/sells-group/windprox-cli/internal/model"
)

// PrintSummary writes a human-readable digest of a classification run.
// Absent statistics (empty retained subset) print as "n/a", never zero.
func PrintSummary(w io.Writer, results []model.ProximityResult, summary model.SummaryStatistics) {
	counts := model.BandCounts(results)

	fmt.Fprintf(w, "Points classified:  %d\n", len(results))
	fmt.Fprintf(w, "  near:             %d\n", counts[model.BandNear])
	fmt.Fprintf(w, "  moderate:         %d\n", counts[model.BandModerate])
	fmt.Fprintf(w, "  excluded:         %d\n", counts[model.BandExcluded])
	fmt.Fprintf(w, "Retained (within threshold): %d\n", summary.Count)
	fmt.Fprintf(w, "  mean distance:    %s\n", kmOrNA(summary.MeanKM))
	fmt.Fprintf(w, "  min distance:     %s\n", kmOrNA(summary.MinKM))
	fmt.Fprintf(w, "  max distance:     %s\n", kmOrNA(summary.MaxKM))
}

func kmOrNA(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f km", *v)
}
