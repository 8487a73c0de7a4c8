// Package blob archives uploaded documents.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Store writes objects and returns their URI.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Key builds an object key under prefix from a file name, keeping only its
// base name.
func Key(prefix, id, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "document"
	}
	return path.Join(prefix, id, name)
}

// NopStore discards objects. Used when no archive bucket is configured.
type NopStore struct{}

func (NopStore) Put(context.Context, string, string, []byte) (string, error) {
	return "", nil
}

// GCSStore stores objects in a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
	name   string
}

type GCSOption func(*gcsOptions)

type gcsOptions struct {
	clientOpts []option.ClientOption
}

// WithCredentialsFile authenticates with a service account key file instead
// of application default credentials.
func WithCredentialsFile(file string) GCSOption {
	return func(o *gcsOptions) {
		if file != "" {
			o.clientOpts = append(o.clientOpts, option.WithCredentialsFile(file))
		}
	}
}

// WithEndpoint points the client at an alternative endpoint such as an
// emulator. Requests are sent unauthenticated.
func WithEndpoint(endpoint string) GCSOption {
	return func(o *gcsOptions) {
		if endpoint != "" {
			o.clientOpts = append(o.clientOpts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
		}
	}
}

// NewGCSStore opens a client for bucket.
func NewGCSStore(ctx context.Context, bucket string, opts ...GCSOption) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs: bucket not set")
	}
	o := &gcsOptions{}
	for _, opt := range opts {
		opt(o)
	}
	clientOpts := append([]option.ClientOption{storage.WithDisabledClientMetrics()}, o.clientOpts...)

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: failed in creating storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: client.Bucket(bucket), name: bucket}, nil
}

func (g *GCSStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	w := g.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return "gs://" + g.name + "/" + key, nil
}

func (g *GCSStore) Close() error {
	return g.client.Close()
}

// MemoryStore keeps objects in memory.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]Object
}

type Object struct {
	ContentType string
	Data        []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (m *MemoryStore) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{ContentType: contentType, Data: append([]byte(nil), data...)}
	return "mem://" + key, nil
}

func (m *MemoryStore) Get(key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	return o, ok
}
