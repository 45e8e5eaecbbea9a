// Package storage provides S3-compatible object storage for completion
// certificates. The interface is domain-agnostic so other modules can reuse
// it for future document kinds.
package storage

import (
	"context"
	"io"
	"time"
)

// PresignedURL is the URL and metadata for a presigned upload or download.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CertificateStore defines the object storage operations the marketplace
// needs for certificates.
type CertificateStore interface {
	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// Upload stores a certificate and returns the file key to record on the
	// job. The jobID scopes the key so certificates never collide.
	Upload(ctx context.Context, bucket, jobID, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// PresignDownload creates a time-limited download URL for a stored
	// certificate.
	PresignDownload(ctx context.Context, bucket, fileKey string) (*PresignedURL, error)

	// Delete removes a stored certificate.
	Delete(ctx context.Context, bucket, fileKey string) error

	// ValidateUpload checks content type and size before accepting a file.
	ValidateUpload(contentType string, sizeBytes int64) error
}

// Config is the configuration slice the storage adapter needs.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
