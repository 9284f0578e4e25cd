package storage

import (
	"context"

	"github.com/vzahanych/weather-archive-app/internal/models"
)

// ObjectStore is a single bucket of JSON weather records.
type ObjectStore interface {
	// Put writes content under name. An existing object with the same name is replaced.
	Put(ctx context.Context, name string, content models.WeatherRecord) error
	// List returns object names in the order the backend reports them.
	List(ctx context.Context) ([]string, error)
	// Get returns the object's JSON content, or an error wrapping ErrNotFound.
	Get(ctx context.Context, name string) (models.WeatherRecord, error)
	// Ping checks that the bucket is reachable.
	Ping(ctx context.Context) error
	Bucket() string
}
