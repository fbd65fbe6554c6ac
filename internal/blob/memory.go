package blob

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"claimdocs/pkg/platform/sentinel"
)

// MemoryStore keeps blobs in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

// NewMemory creates an empty store whose URLs are rooted at baseURL.
func NewMemory(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://blobs"
	}
	return &MemoryStore{objects: make(map[string]Object), baseURL: baseURL}
}

func (s *MemoryStore) Put(_ context.Context, key, contentType string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{Key: key, ContentType: contentType, Data: buf}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", key, sentinel.ErrNotFound)
	}
	buf := make([]byte, len(obj.Data))
	copy(buf, obj.Data)
	return buf, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) URL(key string) string {
	return joinURL(s.baseURL, key)
}

// Object returns the stored object for key.
func (s *MemoryStore) Object(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Keys lists stored keys in lexical order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Handler serves stored objects by key below prefix, for local development
// where the store's URLs point back at the API server.
func (s *MemoryStore) Handler(prefix string) http.Handler {
	return http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		obj, ok := s.Object(strings.TrimLeft(r.URL.Path, "/"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		if obj.ContentType != "" {
			w.Header().Set("Content-Type", obj.ContentType)
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
		_, _ = w.Write(obj.Data)
	}))
}
