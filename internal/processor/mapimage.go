package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PrepareMapImage loads a raster map from a URL or local file, scales it to
// the canvas size and saves it as WebP at dest.
func PrepareMapImage(client *http.Client, source, dest string, width, height int, force bool) error {
	if !force {
		if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
			log.Debug().Str("path", dest).Msg("Map image exists, skipping")
			return nil
		}
	}

	srcImg, err := loadSourceImage(client, source)
	if err != nil {
		return err
	}

	bounds := srcImg.Bounds()
	log.Info().
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Int("canvas_width", width).
		Int("canvas_height", height).
		Msg("Source image loaded, scaling to canvas")

	dstImg := ScaleImage(srcImg, width, height)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", dest).Msg("Failed to close file")
		}
	}()

	if err := webp.Encode(f, dstImg, &webp.Options{Lossless: false, Quality: 85}); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}

	log.Info().Str("path", dest).Msg("Map image saved")
	return nil
}

// ScaleImage resizes src to exactly width x height.
func ScaleImage(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// CatmullRom keeps street lines sharp on heavy downscaling
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func loadSourceImage(client *http.Client, source string) (image.Image, error) {
	var reader io.Reader

	if strings.HasPrefix(source, "http") {
		// Remote URL
		log.Info().Str("url", source).Msg("Downloading source image...")
		resp, err := client.Get(source)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("download failed: %d", resp.StatusCode)
		}

		// Need to buffer for decoding if stream doesn't support seek (some decoders need it)
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(bodyBytes)
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()

		reader = f
	}

	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	log.Info().Str("format", format).Msg("Image decoded successfully")
	return img, nil
}
