package api

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type exportDownload struct {
	fileName  string
	data      []byte
	expiresAt time.Time
}

type exportDownloadStore struct {
	mu    sync.Mutex
	items map[string]exportDownload
	now   func() time.Time
}

func newExportDownloadStore() *exportDownloadStore {
	return &exportDownloadStore{
		items: make(map[string]exportDownload),
		now:   time.Now,
	}
}

func (s *exportDownloadStore) put(fileName string, data []byte, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	token = newRandomToken(24)
	s.items[token] = exportDownload{
		fileName:  fileName,
		data:      data,
		expiresAt: now.Add(ttl),
	}
	return token
}

// take 取出并删除条目
func (s *exportDownloadStore) take(token string) (exportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	v, ok := s.items[token]
	if !ok {
		return exportDownload{}, false
	}
	delete(s.items, token)
	return v, true
}

func (s *exportDownloadStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *exportDownloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
