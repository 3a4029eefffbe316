package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/akazantsev/imgpatch/internal/models"
	"github.com/akazantsev/imgpatch/internal/util"
)

var (
	ErrUpstreamFetch     = errors.New("upstream fetch failed")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrImageDecode       = errors.New("image decode failed")
)

// ThumbnailPipeline: fetch -> validate format -> decode -> resize -> encode.
// Ничего не кэшируется: каждый запрос скачивает и кодирует заново.
type ThumbnailPipeline struct {
	client    *http.Client
	maxWidth  int
	maxHeight int
	log       *zap.SugaredLogger
}

func NewThumbnailPipeline(cfg *util.ThumbnailConfig, log *zap.SugaredLogger) *ThumbnailPipeline {
	return &ThumbnailPipeline{
		client:    &http.Client{Timeout: cfg.FetchTimeout},
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		log:       log,
	}
}

func (p *ThumbnailPipeline) Thumbnail(ctx context.Context, imageURL string) (*models.ImageAsset, error) {
	body, contentType, err := p.fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	p.log.Debugw("fetched image", "url", imageURL, "content_type", contentType, "bytes", len(body))

	// Формат берется из заголовка Content-Type: подстрока после "/".
	format := formatToken(contentType)
	imagingFormat, ok := allowedFormats[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrImageDecode, err)
	}

	// Вписывается в рамку maxWidth x maxHeight с сохранением пропорций,
	// маленькие изображения не растягиваются.
	thumb := imaging.Fit(img, p.maxWidth, p.maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imagingFormat); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return &models.ImageAsset{
		Bytes:       buf.Bytes(),
		ContentType: contentType,
	}, nil
}

func (p *ThumbnailPipeline) fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrUpstreamFetch, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", fmt.Errorf("%w: status %d", ErrUpstreamFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrUpstreamFetch, err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

var allowedFormats = map[string]imaging.Format{
	"png":  imaging.PNG,
	"jpg":  imaging.JPEG,
	"jpeg": imaging.JPEG,
}

func formatToken(contentType string) string {
	idx := strings.LastIndex(contentType, "/")
	return strings.ToLower(contentType[idx+1:])
}
