package gcp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/terraincognita07/lunara/internal/logger"
)

const defaultPublicBaseURL = "https://storage.googleapis.com"

// BucketUploader writes medical reports to one GCS bucket.
type BucketUploader struct {
	log           *logger.Logger
	client        *storage.Client
	bucket        string
	publicBaseURL string
}

func NewBucketUploader(ctx context.Context, bucket string, publicBaseURL string, log *logger.Logger) (*BucketUploader, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, fmt.Errorf("missing gcs bucket name")
	}
	if log == nil {
		log = logger.Nop()
	}

	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &BucketUploader{
		log:           log.With("service", "BucketUploader"),
		client:        client,
		bucket:        bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (uploader *BucketUploader) Upload(ctx context.Context, objectName string, contentType string, body io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	writer := uploader.client.Bucket(uploader.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := io.Copy(writer, body); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	publicURL := PublicObjectURL(uploader.publicBaseURL, uploader.bucket, objectName)
	uploader.log.Debug("object uploaded", "bucket", uploader.bucket, "object", objectName)
	return publicURL, nil
}

func (uploader *BucketUploader) Close() error {
	if uploader == nil || uploader.client == nil {
		return nil
	}
	return uploader.client.Close()
}

// PublicObjectURL builds the download URL for an object. A custom base URL
// (for a CDN in front of the bucket) replaces the bucket segment.
func PublicObjectURL(baseURL string, bucket string, objectName string) string {
	escaped := escapeObjectName(objectName)
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" || baseURL == defaultPublicBaseURL {
		return fmt.Sprintf("%s/%s/%s", defaultPublicBaseURL, bucket, escaped)
	}
	return fmt.Sprintf("%s/%s", baseURL, escaped)
}

// GCSURIFromURL maps a public storage.googleapis.com URL back to gs://.
// gs:// URIs are returned as-is.
func GCSURIFromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "gs://") {
		return raw, nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse object url: %w", err)
	}
	if parsed.Host != "storage.googleapis.com" {
		return "", fmt.Errorf("unsupported object url host %q", parsed.Host)
	}
	objectPath := strings.TrimPrefix(parsed.Path, "/")
	bucket, objectName, found := strings.Cut(objectPath, "/")
	if !found || bucket == "" || objectName == "" {
		return "", fmt.Errorf("object url %q has no object name", raw)
	}
	return "gs://" + bucket + "/" + objectName, nil
}

func escapeObjectName(objectName string) string {
	segments := strings.Split(objectName, "/")
	for index, segment := range segments {
		segments[index] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
