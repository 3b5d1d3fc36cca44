package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ncecere/voice_translator/internal/config"
	"github.com/ncecere/voice_translator/internal/storage/blob"
)

const (
	Extension   = ".mp3"
	ContentType = "audio/mpeg"
)

// ErrInvalidName is returned for artifact names that are not <uuid>.mp3.
var ErrInvalidName = errors.New("audio: invalid artifact name")

// Artifact describes a stored synthesized audio file.
type Artifact struct {
	Name      string
	URL       string
	Size      int64
	Encrypted bool
	CreatedAt time.Time
}

// Service coordinates artifact naming and blob storage.
type Service struct {
	store  blob.Store
	cfg    config.AudioConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store blob.Store, cfg config.AudioConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cfg: cfg, logger: logger, now: time.Now}
}

// Save stores the audio under a fresh unique name and returns its public URL.
func (s *Service) Save(ctx context.Context, body io.Reader, contentType string) (Artifact, error) {
	if contentType == "" {
		contentType = ContentType
	}
	name := uuid.NewString() + Extension
	info, err := s.store.Put(ctx, name, body, blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"kind": "speech"},
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("store audio %s: %w", name, err)
	}
	created := info.ModTime
	if created.IsZero() {
		created = s.now()
	}
	return Artifact{
		Name:      name,
		URL:       s.URL(name),
		Size:      info.Size,
		Encrypted: info.Encrypted,
		CreatedAt: created,
	}, nil
}

// URL returns the root-relative URL for an artifact name.
func (s *Service) URL(name string) string {
	return path.Join(s.cfg.PublicPrefix, name)
}

// Open returns a reader for a previously saved artifact.
func (s *Service) Open(ctx context.Context, name string) (io.ReadCloser, blob.ObjectInfo, error) {
	if !ValidName(name) {
		return nil, blob.ObjectInfo{}, ErrInvalidName
	}
	rc, info, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, blob.ObjectInfo{}, err
	}
	if info.ContentType == "" {
		info.ContentType = ContentType
	}
	return rc, info, nil
}

// SweepExpired deletes artifacts older than the configured TTL. A zero TTL keeps everything.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	if s.cfg.TTL <= 0 {
		return 0, nil
	}
	objects, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-s.cfg.TTL)
	removed := 0
	for _, obj := range objects {
		if !ValidName(obj.Key) || obj.ModTime.IsZero() || obj.ModTime.After(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, obj.Key); err != nil {
			s.logger.Warn("delete expired audio failed", slog.String("name", obj.Key), slog.Any("error", err))
			continue
		}
		removed++
	}
	return removed, nil
}

// ValidName reports whether name has the <uuid>.mp3 form produced by Save.
func ValidName(name string) bool {
	if !strings.HasSuffix(name, Extension) {
		return false
	}
	id, err := uuid.Parse(strings.TrimSuffix(name, Extension))
	if err != nil {
		return false
	}
	return id.String()+Extension == name
}
