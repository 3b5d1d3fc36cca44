package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	metaSuffix = ".meta"
	tempSuffix = ".tmp"
)

// localStore keeps objects as files in a single directory, with a JSON sidecar per object.
type localStore struct {
	root string
}

type localMetadata struct {
	ContentType string            `json:"content_type"`
	Size        int64             `json:"size"`
	Metadata    map[string]string `json:"metadata"`
}

func newLocalStore(dir string) (*localStore, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "static/audio"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &localStore{root: dir}, nil
}

func (s *localStore) Put(ctx context.Context, key string, body io.Reader, opts PutOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	path, metaPath, err := s.pathsForKey(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ObjectInfo{}, err
	}
	tempFile, err := os.CreateTemp(filepath.Dir(path), "upload-*"+tempSuffix)
	if err != nil {
		return ObjectInfo{}, err
	}
	defer os.Remove(tempFile.Name())
	written, err := io.Copy(tempFile, body)
	if err != nil {
		tempFile.Close()
		return ObjectInfo{}, err
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return ObjectInfo{}, err
	}
	if err := tempFile.Close(); err != nil {
		return ObjectInfo{}, err
	}
	// Written files are served publicly.
	if err := os.Chmod(tempFile.Name(), 0o644); err != nil {
		return ObjectInfo{}, err
	}
	if err := os.Rename(tempFile.Name(), path); err != nil {
		return ObjectInfo{}, err
	}
	meta := localMetadata{ContentType: opts.ContentType, Size: written, Metadata: opts.Metadata}
	if err := writeMetadata(metaPath, meta); err != nil {
		return ObjectInfo{}, err
	}
	info := ObjectInfo{Key: key, Size: written, ContentType: opts.ContentType, Metadata: opts.Metadata}
	if st, err := os.Stat(path); err == nil {
		info.ModTime = st.ModTime()
	}
	return info, nil
}

func (s *localStore) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	path, metaPath, err := s.pathsForKey(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, err
	}
	st, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, ObjectInfo{}, err
	}
	info := ObjectInfo{Key: key, Size: st.Size(), ModTime: st.ModTime()}
	meta, err := readMetadata(metaPath)
	switch {
	case err == nil:
		info.ContentType = meta.ContentType
		info.Metadata = meta.Metadata
	case errors.Is(err, ErrNotFound):
		// files dropped into the directory by hand have no sidecar
	default:
		file.Close()
		return nil, ObjectInfo{}, err
	}
	return file, info, nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	path, metaPath, err := s.pathsForKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Remove(metaPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *localStore) List(ctx context.Context) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	objects := make([]ObjectInfo, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, metaSuffix) || strings.HasSuffix(name, tempSuffix) {
			continue
		}
		st, err := entry.Info()
		if err != nil {
			continue
		}
		objects = append(objects, ObjectInfo{Key: name, Size: st.Size(), ModTime: st.ModTime()})
	}
	return objects, nil
}

func (s *localStore) pathsForKey(key string) (string, string, error) {
	cleaned := filepath.Clean(key)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", "", fmt.Errorf("invalid key: %s", key)
	}
	path := filepath.Join(s.root, cleaned)
	return path, path + metaSuffix, nil
}

func writeMetadata(path string, meta localMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o640)
}

func readMetadata(path string) (localMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return localMetadata{}, ErrNotFound
		}
		return localMetadata{}, err
	}
	var meta localMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return localMetadata{}, err
	}
	return meta, nil
}
