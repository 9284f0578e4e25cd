package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-archive-app/internal/config"
	"google.golang.org/api/googleapi"
)

// fakeGCS implements the subset of the Cloud Storage JSON API the store uses.
type fakeGCS struct {
	mu           sync.Mutex
	bucket       string
	names        []string
	objects      map[string][]byte
	contentTypes map[string]string
	pageSize     int
	denied       bool
}

func newFakeGCS(bucket string) *fakeGCS {
	return &fakeGCS{
		bucket:       bucket,
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
		pageSize:     2,
	}
}

func writeAPIError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

func (f *fakeGCS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.denied {
		writeAPIError(w, http.StatusForbidden, "caller does not have storage.objects access")
		return
	}

	uploadPrefix := "/upload/storage/v1/b/" + f.bucket + "/o"
	objectsPrefix := "/storage/v1/b/" + f.bucket + "/o"
	bucketPath := "/storage/v1/b/" + f.bucket

	switch {
	case r.Method == http.MethodPost && r.URL.Path == uploadPrefix:
		f.insert(w, r)
	case r.Method == http.MethodGet && r.URL.Path == objectsPrefix:
		f.list(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, objectsPrefix+"/"):
		f.download(w, strings.TrimPrefix(r.URL.Path, objectsPrefix+"/"))
	case r.Method == http.MethodGet && r.URL.Path == bucketPath:
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"name": %q}`, f.bucket)
	default:
		writeAPIError(w, http.StatusNotFound, "Not Found")
	}
}

func (f *fakeGCS) insert(w http.ResponseWriter, r *http.Request) {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		writeAPIError(w, http.StatusBadRequest, "expected multipart upload")
		return
	}

	reader := multipart.NewReader(r.Body, params["boundary"])

	metaPart, err := reader.NextPart()
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "missing metadata part")
		return
	}
	var meta struct {
		Name        string `json:"name"`
		ContentType string `json:"contentType"`
	}
	if err := json.NewDecoder(metaPart).Decode(&meta); err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad metadata")
		return
	}

	mediaPart, err := reader.NextPart()
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "missing media part")
		return
	}
	data, err := io.ReadAll(mediaPart)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad media")
		return
	}

	if _, exists := f.objects[meta.Name]; !exists {
		f.names = append(f.names, meta.Name)
	}
	f.objects[meta.Name] = data
	f.contentTypes[meta.Name] = meta.ContentType

	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"kind": "storage#object", "name": %q, "bucket": %q, "size": "%d"}`, meta.Name, f.bucket, len(data))
}

func (f *fakeGCS) list(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if token := r.URL.Query().Get("pageToken"); token != "" {
		offset, _ = strconv.Atoi(token)
	}

	end := offset + f.pageSize
	if end > len(f.names) {
		end = len(f.names)
	}

	items := make([]map[string]string, 0, end-offset)
	for _, name := range f.names[offset:end] {
		items = append(items, map[string]string{"name": name})
	}

	resp := map[string]any{"kind": "storage#objects", "items": items}
	if end < len(f.names) {
		resp["nextPageToken"] = strconv.Itoa(end)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeGCS) download(w http.ResponseWriter, name string) {
	data, ok := f.objects[name]
	if !ok {
		writeAPIError(w, http.StatusNotFound, "No such object: "+f.bucket+"/"+name)
		return
	}
	w.Header().Set("Content-Type", f.contentTypes[name])
	_, _ = w.Write(data)
}

func (f *fakeGCS) setDenied(denied bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.denied = denied
}

func (f *fakeGCS) object(name string) ([]byte, string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[name]
	return data, f.contentTypes[name], ok
}

func newTestGCSStore(t *testing.T, fake *fakeGCS) *GCSStore {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewGCSStore(context.Background(), config.StorageConfig{
		Backend:   config.BackendGCS,
		Bucket:    fake.bucket,
		Endpoint:  srv.URL + "/storage/v1/",
		Anonymous: true,
	})
	require.NoError(t, err)
	return store
}

func TestGCSStore_PutGetRoundTrip(t *testing.T) {
	fake := newFakeGCS("weather-bucket")
	store := newTestGCSStore(t, fake)
	ctx := context.Background()

	content := []byte(`{"daily":{"time":["2023-01-01"],"temperature_2m_max":[9.8]}}`)
	name := "weather_35.6895_139.6917_2023-01-01_2023-01-07_20240101120000.json"

	require.NoError(t, store.Put(ctx, name, content))

	stored, contentType, ok := fake.object(name)
	require.True(t, ok)
	assert.Equal(t, "application/json", contentType)
	assert.Contains(t, string(stored), "\n  \"daily\"")

	got, err := store.Get(ctx, name)
	require.NoError(t, err)
	assert.JSONEq(t, string(content), string(got))
}

func TestGCSStore_GetMissing(t *testing.T) {
	store := newTestGCSStore(t, newFakeGCS("weather-bucket"))

	_, err := store.Get(context.Background(), "nonexistent.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var storageErr *StorageError
	assert.False(t, errors.As(err, &storageErr))
}

func TestGCSStore_ListFollowsPages(t *testing.T) {
	fake := newFakeGCS("weather-bucket")
	store := newTestGCSStore(t, fake)
	ctx := context.Background()

	want := []string{"a.json", "b.json", "c.json", "d.json", "e.json"}
	for _, name := range want {
		require.NoError(t, store.Put(ctx, name, []byte(`{}`)))
	}

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, names)
}

func TestGCSStore_ListEmptyBucket(t *testing.T) {
	store := newTestGCSStore(t, newFakeGCS("weather-bucket"))

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestGCSStore_PermissionDenied(t *testing.T) {
	fake := newFakeGCS("weather-bucket")
	store := newTestGCSStore(t, fake)
	ctx := context.Background()
	fake.setDenied(true)

	tests := []struct {
		name string
		op   string
		call func() error
	}{
		{"put", "put", func() error { return store.Put(ctx, "x.json", []byte(`{}`)) }},
		{"list", "list", func() error { _, err := store.List(ctx); return err }},
		{"get", "get", func() error { _, err := store.Get(ctx, "x.json"); return err }},
		{"ping", "ping", func() error { return store.Ping(ctx) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()

			var storageErr *StorageError
			require.ErrorAs(t, err, &storageErr)
			assert.Equal(t, tt.op, storageErr.Op)
			assert.Equal(t, "weather-bucket", storageErr.Bucket)

			var apiErr *googleapi.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusForbidden, apiErr.Code)
			assert.False(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestGCSStore_PutRejectsInvalidJSON(t *testing.T) {
	fake := newFakeGCS("weather-bucket")
	store := newTestGCSStore(t, fake)

	err := store.Put(context.Background(), "bad.json", []byte(`{"daily":`))

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	_, _, ok := fake.object("bad.json")
	assert.False(t, ok)
}

func TestGCSStore_GetCorruptObject(t *testing.T) {
	fake := newFakeGCS("weather-bucket")
	fake.names = append(fake.names, "corrupt.json")
	fake.objects["corrupt.json"] = []byte("not json")
	store := newTestGCSStore(t, fake)

	_, err := store.Get(context.Background(), "corrupt.json")

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "get", storageErr.Op)
}

func TestGCSStore_Ping(t *testing.T) {
	store := newTestGCSStore(t, newFakeGCS("weather-bucket"))

	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, "weather-bucket", store.Bucket())
}
