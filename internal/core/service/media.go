package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// MediaService resolves presigned URLs for product images. The object store
// itself is never touched directly; the backend signs everything.
type MediaService struct {
	api ports.Requester
	log zerolog.Logger
}

func NewMediaService(api ports.Requester, log zerolog.Logger) *MediaService {
	return &MediaService{api: api, log: log}
}

// StoredImage is one object in the image bucket with a short-lived URL.
type StoredImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadURL returns a presigned PUT URL for a new product image.
func (s *MediaService) UploadURL(ctx context.Context, filename, contentType string) (string, error) {
	q := url.Values{}
	q.Set("filename", filename)
	q.Set("content_type", contentType)

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/upload-url?"+q.Encode(), nil, &out, nil); err != nil {
		return "", err
	}
	return out.UploadURL, nil
}

// ImageURL returns a short-lived download URL for a stored image.
func (s *MediaService) ImageURL(ctx context.Context, filename string) (string, error) {
	var out struct {
		ImageURL string `json:"image_url"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/imagen/"+url.PathEscape(filename), nil, &out, nil); err != nil {
		return "", err
	}
	return out.ImageURL, nil
}

// ListImages returns every stored image with a resolved URL. Back-office
// only.
func (s *MediaService) ListImages(ctx context.Context) ([]StoredImage, error) {
	var out struct {
		Images []StoredImage `json:"images"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/admin/s3-images", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Images, nil
}
