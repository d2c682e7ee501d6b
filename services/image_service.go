package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/martin-sellanes/pulseras-crm-api/store"
	"github.com/martin-sellanes/pulseras-crm-api/utils"
)

// ImageService uploads inbound product images and returns publicly
// dereferenceable URLs for embedding.
type ImageService interface {
	// Attach decodes a data-URL-style payload, uploads it under the
	// suggested filename and returns the public URL.
	Attach(ctx context.Context, payload, filename string) (string, error)
}

// S3ImageService implements ImageService using AWS S3 for storage. Uploads
// land under a fixed folder prefix.
type S3ImageService struct {
	s3     S3Interface
	folder string
}

// NewImageService creates an image service over an S3 client.
func NewImageService(s3 S3Interface, folder string) *S3ImageService {
	return &S3ImageService{s3: s3, folder: folder}
}

// Attach validates, decodes and uploads an image payload.
func (s *S3ImageService) Attach(ctx context.Context, payload, filename string) (string, error) {
	data, err := decodeImagePayload(payload)
	if err != nil {
		return "", err
	}
	if err := utils.ValidateImagePayload(filename, len(data)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImagePayload, err)
	}

	key := path.Join(s.folder, filename)
	url, err := s.s3.UploadObject(ctx, key, data, "image/png")
	if err != nil {
		return "", fmt.Errorf("uploading image: %w: %v", store.ErrUnavailable, err)
	}
	return url, nil
}

// decodeImagePayload splits a "<metadata-prefix>,<base64 body>" payload and
// decodes the body.
func decodeImagePayload(payload string) ([]byte, error) {
	_, encoded, found := strings.Cut(payload, ",")
	if !found {
		return nil, fmt.Errorf("%w: missing data-URL separator", ErrInvalidImagePayload)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: body is not valid base64", ErrInvalidImagePayload)
	}
	return data, nil
}

// DisabledImageService rejects every attachment; used when no storage bucket
// is configured.
type DisabledImageService struct{}

// Attach always fails with store.ErrUnavailable.
func (DisabledImageService) Attach(ctx context.Context, payload, filename string) (string, error) {
	return "", fmt.Errorf("%w: image uploads are not configured", store.ErrUnavailable)
}
