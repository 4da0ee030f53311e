package gcsuploader

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/dvloznov/budget-tracker/internal/gcs"
)

// StorageService is re-exported so callers only need this package.
type StorageService = gcs.StorageService

// GCSStorageService is the concrete implementation of StorageService
// that interacts with Google Cloud Storage through a shared client.
type GCSStorageService struct {
	client *storage.Client
}

var _ StorageService = (*GCSStorageService)(nil)

// NewGCSStorageService creates a new instance of GCSStorageService.
// It assumes Application Default Credentials are configured.
func NewGCSStorageService(ctx context.Context) (*GCSStorageService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewGCSStorageService: create storage client: %w", err)
	}
	return &GCSStorageService{client: client}, nil
}

// Close closes the storage client.
func (s *GCSStorageService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// UploadBytes delegates to UploadBytesWithClient with the shared client.
func (s *GCSStorageService) UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) (string, error) {
	return UploadBytesWithClient(ctx, s.client, bucketName, objectName, data, contentType)
}

// FetchFromGCS delegates to FetchFromGCSWithClient with the shared client.
func (s *GCSStorageService) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	return FetchFromGCSWithClient(ctx, s.client, gcsURI)
}
