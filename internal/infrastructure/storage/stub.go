package storage

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
)

// StubObjectStorage hands out fake URLs and remembers deletions. It backs
// development setups without a bucket and the service tests.
type StubObjectStorage struct {
	BaseURL string

	mu      sync.Mutex
	deleted []string
}

// NewStubObjectStorage creates a StubObjectStorage
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/marketplace"
	}
	return &StubObjectStorage{BaseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateUploadURL returns an unsigned URL carrying the expiry as a query parameter
func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{}
	q.Set("content_type", contentType)
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	return s.BaseURL + "/upload/" + storageKey + "?" + q.Encode(), expiresAt, nil
}

// DeleteObject records the key
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errKeyRequired
	}
	s.mu.Lock()
	s.deleted = append(s.deleted, storageKey)
	s.mu.Unlock()
	return nil
}

// PublicURL joins the base URL and key
func (s *StubObjectStorage) PublicURL(storageKey string) string {
	return s.BaseURL + "/" + strings.TrimLeft(storageKey, "/")
}

// Deleted returns the keys passed to DeleteObject
func (s *StubObjectStorage) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

var _ catalogapp.ObjectStorage = (*StubObjectStorage)(nil)
