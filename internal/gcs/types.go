package gcs

import (
	"context"
)

// StorageService provides an interface for cloud storage operations.
// This interface enables mocking and testing of storage functionality.
type StorageService interface {
	// UploadBytes writes data to bucket/object and returns its gs:// URI.
	UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) (string, error)

	// FetchFromGCS downloads object bytes from the given storage URI.
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
}
