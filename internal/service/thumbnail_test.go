package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akazantsev/imgpatch/internal/util"
)

func testThumbnailCfg() *util.ThumbnailConfig {
	return &util.ThumbnailConfig{
		FetchTimeout: 2 * time.Second,
		MaxWidth:     50,
		MaxHeight:    50,
	}
}

func newPipeline() *ThumbnailPipeline {
	return NewThumbnailPipeline(testThumbnailCfg(), zap.NewNop().Sugar())
}

func makeTestImage(t *testing.T, width, height int, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func encodePNG(buf *bytes.Buffer, img image.Image) error  { return png.Encode(buf, img) }
func encodeJPEG(buf *bytes.Buffer, img image.Image) error { return jpeg.Encode(buf, img, nil) }

func imageServer(t *testing.T, contentType string, body []byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestThumbnail_PNG(t *testing.T) {
	body := makeTestImage(t, 100, 80, encodePNG)
	srv := imageServer(t, "image/png", body)

	asset, err := newPipeline().Thumbnail(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "image/png", asset.ContentType)

	thumb, err := png.Decode(bytes.NewReader(asset.Bytes))
	require.NoError(t, err)
	require.Equal(t, 50, thumb.Bounds().Dx())
	require.Equal(t, 40, thumb.Bounds().Dy())
}

func TestThumbnail_JPEG(t *testing.T) {
	body := makeTestImage(t, 64, 128, encodeJPEG)
	srv := imageServer(t, "image/jpeg", body)

	asset, err := newPipeline().Thumbnail(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", asset.ContentType)

	thumb, err := jpeg.Decode(bytes.NewReader(asset.Bytes))
	require.NoError(t, err)
	require.Equal(t, 25, thumb.Bounds().Dx())
	require.Equal(t, 50, thumb.Bounds().Dy())
}

func TestThumbnail_JpgContentTypeToken(t *testing.T) {
	// "jpg" в Content-Type допустим наравне с "jpeg".
	body := makeTestImage(t, 60, 60, encodeJPEG)
	srv := imageServer(t, "image/jpg", body)

	asset, err := newPipeline().Thumbnail(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "image/jpg", asset.ContentType)

	thumb, err := jpeg.Decode(bytes.NewReader(asset.Bytes))
	require.NoError(t, err)
	require.Equal(t, 50, thumb.Bounds().Dx())
	require.Equal(t, 50, thumb.Bounds().Dy())
}

func TestThumbnail_NoUpscaling(t *testing.T) {
	body := makeTestImage(t, 20, 10, encodePNG)
	srv := imageServer(t, "image/png", body)

	asset, err := newPipeline().Thumbnail(context.Background(), srv.URL)
	require.NoError(t, err)

	thumb, err := png.Decode(bytes.NewReader(asset.Bytes))
	require.NoError(t, err)
	require.Equal(t, 20, thumb.Bounds().Dx())
	require.Equal(t, 10, thumb.Bounds().Dy())
}

func TestThumbnail_UnsupportedFormat(t *testing.T) {
	// Тело нарочно не является картинкой: формат должен быть отброшен
	// до попытки декодирования.
	srv := imageServer(t, "image/gif", []byte("definitely not a gif"))

	_, err := newPipeline().Thumbnail(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestThumbnail_DecodeFailure(t *testing.T) {
	srv := imageServer(t, "image/png", []byte("corrupt bytes"))

	_, err := newPipeline().Thumbnail(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrImageDecode)
}

func TestThumbnail_UpstreamErrors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		t.Cleanup(srv.Close)

		_, err := newPipeline().Thumbnail(context.Background(), srv.URL)
		require.ErrorIs(t, err, ErrUpstreamFetch)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := newPipeline().Thumbnail(context.Background(), url)
		require.ErrorIs(t, err, ErrUpstreamFetch)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := newPipeline().Thumbnail(context.Background(), "://not-a-url")
		require.ErrorIs(t, err, ErrUpstreamFetch)
	})
}
