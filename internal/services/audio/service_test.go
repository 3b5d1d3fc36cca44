package audio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ncecere/voice_translator/internal/config"
	"github.com/ncecere/voice_translator/internal/storage/blob"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	mod     map[string]time.Time
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, mod: map[string]time.Time{}}
}

func (m *memStore) Put(ctx context.Context, key string, body io.Reader, opts blob.PutOptions) (blob.ObjectInfo, error) {
	if m.putErr != nil {
		return blob.ObjectInfo{}, m.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return blob.ObjectInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	if _, ok := m.mod[key]; !ok {
		m.mod[key] = time.Now()
	}
	return blob.ObjectInfo{Key: key, Size: int64(len(data)), ContentType: opts.ContentType, ModTime: m.mod[key]}, nil
}

func (m *memStore) Get(ctx context.Context, key string) (io.ReadCloser, blob.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, blob.ObjectInfo{}, blob.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), blob.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.mod, key)
	return nil
}

func (m *memStore) List(ctx context.Context) ([]blob.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]blob.ObjectInfo, 0, len(m.objects))
	for key := range m.objects {
		out = append(out, blob.ObjectInfo{Key: key, ModTime: m.mod[key]})
	}
	return out, nil
}

func testAudioConfig() config.AudioConfig {
	return config.AudioConfig{PublicPrefix: "/static/audio", TTL: time.Hour}
}

func TestSaveAssignsUniqueNames(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := NewService(store, testAudioConfig(), nil)

	first, err := svc.Save(context.Background(), bytes.NewReader([]byte("a")), "")
	require.NoError(t, err)
	second, err := svc.Save(context.Background(), bytes.NewReader([]byte("b")), "")
	require.NoError(t, err)

	require.NotEqual(t, first.Name, second.Name)
	require.True(t, ValidName(first.Name))
	require.Equal(t, "/static/audio/"+first.Name, first.URL)
	require.Regexp(t, `^/static/audio/[0-9a-f-]{36}\.mp3$`, second.URL)
	require.Len(t, store.objects, 2)
}

func TestSavePropagatesStoreError(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.putErr = errors.New("disk full")
	svc := NewService(store, testAudioConfig(), nil)
	_, err := svc.Save(context.Background(), bytes.NewReader([]byte("a")), ContentType)
	require.ErrorContains(t, err, "disk full")
}

func TestOpenValidatesName(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore(), testAudioConfig(), nil)
	for _, name := range []string{"../etc/passwd", "abc.mp3", uuid.NewString() + ".wav", uuid.NewString() + ".mp3.meta"} {
		_, _, err := svc.Open(context.Background(), name)
		require.ErrorIs(t, err, ErrInvalidName, name)
	}

	_, _, err := svc.Open(context.Background(), uuid.NewString()+".mp3")
	require.ErrorIs(t, err, blob.ErrNotFound)
}

func TestOpenDefaultsContentType(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore(), testAudioConfig(), nil)
	art, err := svc.Save(context.Background(), bytes.NewReader([]byte("mp3")), ContentType)
	require.NoError(t, err)

	rc, info, err := svc.Open(context.Background(), art.Name)
	require.NoError(t, err)
	defer rc.Close()
	require.Equal(t, ContentType, info.ContentType)
}

func TestSweepExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	oldName := uuid.NewString() + Extension
	freshName := uuid.NewString() + Extension
	store.objects[oldName] = []byte("old")
	store.mod[oldName] = now.Add(-2 * time.Hour)
	store.objects[freshName] = []byte("fresh")
	store.mod[freshName] = now.Add(-10 * time.Minute)
	store.objects["notes.txt"] = []byte("keep")
	store.mod["notes.txt"] = now.Add(-48 * time.Hour)

	svc := NewService(store, testAudioConfig(), nil)
	svc.now = func() time.Time { return now }

	removed, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.NotContains(t, store.objects, oldName)
	require.Contains(t, store.objects, freshName)
	require.Contains(t, store.objects, "notes.txt")
}

func TestSweepDisabledWithZeroTTL(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	name := uuid.NewString() + Extension
	store.objects[name] = []byte("x")
	store.mod[name] = time.Unix(0, 0)

	cfg := testAudioConfig()
	cfg.TTL = 0
	removed, err := NewService(store, cfg, nil).SweepExpired(context.Background())
	require.NoError(t, err)
	require.Zero(t, removed)
	require.Contains(t, store.objects, name)
}
