package storage

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/spf13/afero"
	"github.com/vzahanych/weather-archive-app/internal/models"
)

var errInvalidName = errors.New("object name must be a single path segment")

// FileStore keeps each object as a file in a directory named after the bucket.
// It backs the filesystem backend and, over an in-memory afero.Fs, the memory backend.
type FileStore struct {
	fs     afero.Fs
	bucket string
}

func NewFileStore(fsys afero.Fs, bucket string) *FileStore {
	return &FileStore{fs: fsys, bucket: bucket}
}

// NewFilesystemStore stores objects under baseDir/bucket on the local disk.
func NewFilesystemStore(baseDir, bucket string) *FileStore {
	return NewFileStore(afero.NewBasePathFs(afero.NewOsFs(), baseDir), bucket)
}

func NewMemoryStore(bucket string) *FileStore {
	return NewFileStore(afero.NewMemMapFs(), bucket)
}

func (s *FileStore) Bucket() string {
	return s.bucket
}

func (s *FileStore) Put(_ context.Context, name string, content models.WeatherRecord) error {
	if !validName(name) {
		return &StorageError{Op: "put", Bucket: s.bucket, Name: name, Err: errInvalidName}
	}

	data, err := encodeRecord(content)
	if err != nil {
		return &StorageError{Op: "put", Bucket: s.bucket, Name: name, Err: err}
	}

	if err := s.fs.MkdirAll(s.bucket, 0o755); err != nil {
		return &StorageError{Op: "put", Bucket: s.bucket, Name: name, Err: err}
	}

	// Write to a private temp file then rename, so readers never see a partial
	// object and concurrent writers of one name end with the last rename winning.
	tmp, err := afero.TempFile(s.fs, s.bucket, "."+name+".*.tmp")
	if err != nil {
		return &StorageError{Op: "put", Bucket: s.bucket, Name: name, Err: err}
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = s.fs.Rename(tmpName, s.objectPath(name))
	}
	if err != nil {
		_ = s.fs.Remove(tmpName)
		return &StorageError{Op: "put", Bucket: s.bucket, Name: name, Err: err}
	}

	return nil
}

func (s *FileStore) List(_ context.Context) ([]string, error) {
	names := make([]string, 0)

	entries, err := afero.ReadDir(s.fs, s.bucket)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return names, nil
		}
		return nil, &StorageError{Op: "list", Bucket: s.bucket, Err: err}
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

func (s *FileStore) Get(_ context.Context, name string) (models.WeatherRecord, error) {
	if !validName(name) {
		return nil, notFound(s.bucket, name)
	}

	data, err := afero.ReadFile(s.fs, s.objectPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(s.bucket, name)
		}
		return nil, &StorageError{Op: "get", Bucket: s.bucket, Name: name, Err: err}
	}

	record, err := decodeRecord(data)
	if err != nil {
		return nil, &StorageError{Op: "get", Bucket: s.bucket, Name: name, Err: err}
	}

	return record, nil
}

// Ping succeeds when the bucket directory exists or can be created.
func (s *FileStore) Ping(_ context.Context) error {
	if err := s.fs.MkdirAll(s.bucket, 0o755); err != nil {
		return &StorageError{Op: "ping", Bucket: s.bucket, Err: err}
	}
	return nil
}

func (s *FileStore) objectPath(name string) string {
	return path.Join(s.bucket, name)
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.HasPrefix(name, ".") && !strings.ContainsAny(name, `/\`)
}
