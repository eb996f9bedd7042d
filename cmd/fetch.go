package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/windprox-cli/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Download a dataset for classification",
	Long:  "Downloads a dataset over HTTP into the local cache. ZIP archives are extracted and the contained shapefile or GeoJSON file is located.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		destDir, _ := cmd.Flags().GetString("dest")
		if destDir == "" {
			destDir = cfg.Fetch.CacheDir
		}

		path, err := fetch.Dataset(ctx, args[0], destDir)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, path)
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("dest", "", "destination directory (defaults to fetch.cache_dir)")
	rootCmd.AddCommand(fetchCmd)
}
