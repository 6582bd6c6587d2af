package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/sftrees/internal/trees"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "golang.org/x/image/webp"
)

const dataset = "TreeID,qSpecies,qAddress,PlotSize,qSiteInfo,DBH,Longitude,Latitude\n" +
	"1,Oak,1 Oak St,Small,Sidewalk,3,-122.43,37.77\n" +
	"2,::,2 Elm St,Small,Sidewalk,3,-122.43,37.77\n"

var parser = trees.Parser{UnknownSpecies: []string{"::"}}

func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()

	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			src.Set(x, y, color.RGBA{R: 200, G: 220, B: 200, A: 255})
		}
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, src))

	mux := http.NewServeMux()
	mux.HandleFunc("/trees.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dataset))
	})
	mux.HandleFunc("/broken.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("just,a,header\n"))
	})
	mux.HandleFunc("/map.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngBuf.Bytes())
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchDataset(t *testing.T) {
	srv := newFixtureServer(t)
	dest := filepath.Join(t.TempDir(), "data", "trees.csv")

	require.NoError(t, FetchDataset(srv.Client(), srv.URL+"/trees.csv", dest, parser, false))

	records, err := parser.Load(dest)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "small", records[0].PlotSize)

	t.Run("existing file kept", func(t *testing.T) {
		require.NoError(t, os.WriteFile(dest, []byte("keep"), 0o644))
		require.NoError(t, FetchDataset(srv.Client(), srv.URL+"/trees.csv", dest, parser, false))

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "keep", string(data))
	})

	t.Run("unusable download", func(t *testing.T) {
		err := FetchDataset(srv.Client(), srv.URL+"/broken.csv", dest, parser, true)
		require.ErrorIs(t, err, trees.ErrMissingColumn)

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "keep", string(data), "destination untouched")
	})

	t.Run("not found", func(t *testing.T) {
		err := FetchDataset(srv.Client(), srv.URL+"/missing.csv", dest, parser, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})
}

func TestPrepareMapImage(t *testing.T) {
	srv := newFixtureServer(t)
	dest := filepath.Join(t.TempDir(), "map.webp")

	require.NoError(t, PrepareMapImage(srv.Client(), srv.URL+"/map.png", dest, 30, 30, false))

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "webp", format)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 30, cfg.Height)

	err = PrepareMapImage(srv.Client(), filepath.Join(t.TempDir(), "none.png"), filepath.Join(t.TempDir(), "x.webp"), 30, 30, false)
	require.Error(t, err)
}

func TestScaleImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	dst := ScaleImage(src, 10, 20)

	assert.Equal(t, image.Rect(0, 0, 10, 20), dst.Bounds())
}
