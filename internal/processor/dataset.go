// Package processor downloads and prepares the tree dataset and map image.
package processor

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/woozymasta/sftrees/internal/trees"

	"github.com/rs/zerolog/log"
)

// FetchDataset downloads the tree CSV from url to dest. An existing file is
// kept unless force is set. The download is parsed before it replaces dest.
func FetchDataset(client *http.Client, url, dest string, parser trees.Parser, force bool) error {
	if _, err := os.Stat(dest); err == nil && !force {
		log.Debug().Str("path", dest).Msg("Dataset exists, skipping")
		return nil
	}

	log.Info().Str("url", url).Msg("Downloading tree dataset")

	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".trees-*.csv")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	size, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	records, err := parser.Load(tmp.Name())
	if err != nil {
		return fmt.Errorf("downloaded dataset is not usable: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return err
	}

	log.Info().
		Str("path", dest).
		Int64("bytes", size).
		Int("records", len(records)).
		Msg("Tree dataset saved")

	return nil
}
