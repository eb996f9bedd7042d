package fetch

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Dataset fetches a dataset archive or file over HTTP and returns the path to
// a loadable geometry file. ZIP archives are extracted and searched for a .shp
// or .geojson entry; anything else is saved as-is.
func Dataset(ctx context.Context, url, destDir string) (string, error) {
	log := zap.L().With(
		zap.String("component", "fetch.dataset"),
		zap.String("url", url),
	)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", eris.Wrap(err, "fetch: create dest dir")
	}

	parts := strings.Split(url, "/")
	name := parts[len(parts)-1]
	if name == "" {
		return "", eris.Errorf("fetch: cannot derive filename from URL %s", url)
	}
	destPath := filepath.Join(destDir, name)

	// Skip the download if the file already exists with content.
	if info, err := os.Stat(destPath); err == nil && info.Size() > 0 {
		log.Debug("file already exists, skipping download", zap.String("path", destPath))
	} else {
		log.Info("downloading dataset")
		if err := downloadFile(ctx, url, destPath); err != nil {
			return "", eris.Wrap(err, "fetch: download dataset")
		}
	}

	if !strings.HasSuffix(strings.ToLower(name), ".zip") {
		return destPath, nil
	}

	extractDir := filepath.Join(destDir, strings.TrimSuffix(name, ".zip"))
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", eris.Wrap(err, "fetch: create extract dir")
	}

	if err := extractZIP(destPath, extractDir); err != nil {
		return "", eris.Wrap(err, "fetch: extract ZIP")
	}

	for _, ext := range []string{".shp", ".geojson", ".json"} {
		if p, err := findFileByExt(extractDir, ext); err == nil {
			return p, nil
		}
	}
	return "", eris.Errorf("fetch: no loadable geometry file in %s", extractDir)
}

// downloadFile downloads a URL to a local file.
func downloadFile(ctx context.Context, url, dest string) error {
	client := &http.Client{Timeout: 10 * time.Minute}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrap(err, "download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, resp.Body); err != nil {
		return eris.Wrap(err, "write file")
	}

	return nil
}

// extractZIP extracts a ZIP archive to the destination directory. Entry paths
// are flattened to their base name.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		name := filepath.Base(f.Name)
		destPath := filepath.Join(destDir, name)

		if f.FileInfo().IsDir() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip entry %s", f.Name)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "create %s", destPath)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			_ = outFile.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "extract %s", f.Name)
		}
		_ = outFile.Close()
		_ = rc.Close()
	}

	return nil
}

// findFileByExt finds the first file with the given extension in a directory.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file found in %s", ext, dir)
}
