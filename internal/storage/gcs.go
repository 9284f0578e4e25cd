package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vzahanych/weather-archive-app/internal/config"
	"github.com/vzahanych/weather-archive-app/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storagev1 "google.golang.org/api/storage/v1"
)

// GCSStore keeps records in a Google Cloud Storage bucket through the JSON API.
type GCSStore struct {
	service *storagev1.Service
	bucket  string
}

// NewGCSStore creates the storage client. Credentials come from the configured
// credentials file or Application Default Credentials; Anonymous skips auth,
// which together with Endpoint is how emulators are reached.
func NewGCSStore(ctx context.Context, cfg config.StorageConfig, opts ...option.ClientOption) (*GCSStore, error) {
	clientOpts := []option.ClientOption{option.WithScopes(storagev1.DevstorageReadWriteScope)}

	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}

	switch {
	case cfg.Anonymous:
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	clientOpts = append(clientOpts, opts...)

	service, err := storagev1.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage service: %w", err)
	}

	return &GCSStore{
		service: service,
		bucket:  cfg.Bucket,
	}, nil
}

func (s *GCSStore) Bucket() string {
	return s.bucket
}

func (s *GCSStore) Put(ctx context.Context, name string, content models.WeatherRecord) error {
	data, err := encodeRecord(content)
	if err != nil {
		return &StorageError{Op: "put", Bucket: s.bucket, Name: name, Err: err}
	}

	object := &storagev1.Object{
		Name:        name,
		ContentType: contentTypeJSON,
	}

	_, err = s.service.Objects.Insert(s.bucket, object).
		Media(bytes.NewReader(data), googleapi.ContentType(contentTypeJSON)).
		Context(ctx).
		Do()
	if err != nil {
		return &StorageError{Op: "put", Bucket: s.bucket, Name: name, Err: err}
	}

	return nil
}

func (s *GCSStore) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0)

	err := s.service.Objects.List(s.bucket).
		Fields("items(name)", "nextPageToken").
		Pages(ctx, func(page *storagev1.Objects) error {
			for _, object := range page.Items {
				names = append(names, object.Name)
			}
			return nil
		})
	if err != nil {
		return nil, &StorageError{Op: "list", Bucket: s.bucket, Err: err}
	}

	return names, nil
}

func (s *GCSStore) Get(ctx context.Context, name string) (models.WeatherRecord, error) {
	resp, err := s.service.Objects.Get(s.bucket, name).Context(ctx).Download()
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(s.bucket, name)
		}
		return nil, &StorageError{Op: "get", Bucket: s.bucket, Name: name, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &StorageError{Op: "get", Bucket: s.bucket, Name: name, Err: err}
	}

	record, err := decodeRecord(data)
	if err != nil {
		return nil, &StorageError{Op: "get", Bucket: s.bucket, Name: name, Err: err}
	}

	return record, nil
}

func (s *GCSStore) Ping(ctx context.Context) error {
	_, err := s.service.Buckets.Get(s.bucket).Fields("name").Context(ctx).Do()
	if err != nil {
		return &StorageError{Op: "ping", Bucket: s.bucket, Err: err}
	}
	return nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
