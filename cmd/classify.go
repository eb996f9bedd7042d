package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/windprox-cli/internal/gis"
	"github.com/sells-group/windprox-cli/internal/model"
	"github.com/sells-group/windprox-cli/internal/proximity"
	"github.com/sells-group/windprox-cli/internal/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify points by distance to the nearest region centroid",
	Long:  "Loads point and region datasets, computes per-point distance to the nearest region part centroid, bands each point, and prints summary statistics over the retained subset.",
	RunE:  runClassify,
}

func init() {
	classifyCmd.Flags().String("points", "", "path to the point dataset (.geojson or .shp)")
	classifyCmd.Flags().String("regions", "", "path to the region dataset (.geojson or .shp)")
	classifyCmd.Flags().Float64("threshold-km", 0, "retention threshold in km (overrides config)")
	classifyCmd.Flags().Float64("near-band-km", 0, "near band upper bound in km (overrides config)")
	classifyCmd.Flags().String("method", "", "distance method: planar or haversine (overrides config)")
	classifyCmd.Flags().Int("utm-zone", 0, "force a UTM zone instead of deriving one from the data")
	classifyCmd.Flags().Int("workers", 0, "parallel distance workers, 0 for sequential")
	classifyCmd.Flags().Bool("no-index", false, "disable the spatial index for nearest-centroid lookup")
	classifyCmd.Flags().String("csv-out", "", "write per-point results to a CSV file")
	classifyCmd.Flags().String("geojson-out", "", "write per-point results to a GeoJSON file")
	classifyCmd.Flags().Bool("no-store", false, "skip persisting the run to the database")

	_ = classifyCmd.MarkFlagRequired("points")
	_ = classifyCmd.MarkFlagRequired("regions")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return err
	}

	pointsPath, _ := cmd.Flags().GetString("points")
	regionsPath, _ := cmd.Flags().GetString("regions")
	noStore, _ := cmd.Flags().GetBool("no-store")
	csvOut, _ := cmd.Flags().GetString("csv-out")
	geojsonOut, _ := cmd.Flags().GetString("geojson-out")

	opts := classifyOptions(cmd)

	log := zap.L().With(
		zap.String("points", pointsPath),
		zap.String("regions", regionsPath),
	)

	points, err := gis.LoadPoints(pointsPath)
	if err != nil {
		return eris.Wrap(err, "classify: load points")
	}
	regions, err := gis.LoadRegions(regionsPath)
	if err != nil {
		return eris.Wrap(err, "classify: load regions")
	}
	log.Info("datasets loaded",
		zap.Int("point_count", len(points.Features)),
		zap.Int("region_count", len(regions.Features)),
	)

	classifier, err := proximity.New(opts)
	if err != nil {
		return err
	}

	if !noStore {
		s, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck

		run, err := s.CreateRun(ctx, model.RunParams{
			PointsPath:  pointsPath,
			RegionsPath: regionsPath,
			ThresholdKM: opts.ThresholdKM,
			NearBandKM:  opts.NearBandKM,
			Method:      string(opts.Method),
		})
		if err != nil {
			return eris.Wrap(err, "classify: create run")
		}
		log = log.With(zap.String("run_id", run.ID))

		results, summary, cerr := classifier.Classify(points, regions)
		if cerr != nil {
			if ferr := s.FailRun(ctx, run.ID, cerr); ferr != nil {
				log.Warn("record run failure", zap.Error(ferr))
			}
			return cerr
		}
		if err := s.SaveResults(ctx, run.ID, results); err != nil {
			return eris.Wrap(err, "classify: save results")
		}
		if err := s.CompleteRun(ctx, run.ID, &summary); err != nil {
			return eris.Wrap(err, "classify: complete run")
		}

		return emitResults(log, results, summary, csvOut, geojsonOut)
	}

	results, summary, err := classifier.Classify(points, regions)
	if err != nil {
		return err
	}
	return emitResults(log, results, summary, csvOut, geojsonOut)
}

// classifyOptions merges config defaults with flag overrides.
func classifyOptions(cmd *cobra.Command) proximity.Options {
	opts := proximity.Options{
		ThresholdKM: cfg.Proximity.ThresholdKM,
		NearBandKM:  cfg.Proximity.NearBandKM,
		Method:      proximity.Method(cfg.Proximity.Method),
		UTMZone:     cfg.Proximity.UTMZone,
		UseIndex:    cfg.Proximity.UseIndex,
		Workers:     cfg.Proximity.Workers,
	}

	if cmd.Flags().Changed("threshold-km") {
		opts.ThresholdKM, _ = cmd.Flags().GetFloat64("threshold-km")
	}
	if cmd.Flags().Changed("near-band-km") {
		opts.NearBandKM, _ = cmd.Flags().GetFloat64("near-band-km")
	}
	if cmd.Flags().Changed("method") {
		m, _ := cmd.Flags().GetString("method")
		opts.Method = proximity.Method(m)
	}
	if cmd.Flags().Changed("utm-zone") {
		opts.UTMZone, _ = cmd.Flags().GetInt("utm-zone")
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if noIndex, _ := cmd.Flags().GetBool("no-index"); noIndex {
		opts.UseIndex = false
	}

	return opts
}

// emitResults writes optional file exports and the console summary.
func emitResults(log *zap.Logger, results []model.ProximityResult, summary model.SummaryStatistics, csvOut, geojsonOut string) error {
	if csvOut != "" {
		if err := report.WriteCSVFile(csvOut, results); err != nil {
			return err
		}
		log.Info("wrote CSV export", zap.String("path", csvOut))
	}
	if geojsonOut != "" {
		if err := report.WriteGeoJSONFile(geojsonOut, results); err != nil {
			return err
		}
		log.Info("wrote GeoJSON export", zap.String("path", geojsonOut))
	}

	report.PrintSummary(os.Stdout, results, summary)
	return nil
}
