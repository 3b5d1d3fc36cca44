package blob

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStorePutGetDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")
	st, err := newLocalStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	info, err := st.Put(ctx, "clip.mp3", bytes.NewReader([]byte("ID3data")), PutOptions{ContentType: "audio/mpeg"})
	require.NoError(t, err)
	require.Equal(t, int64(7), info.Size)
	require.False(t, info.ModTime.IsZero())

	rc, got, err := st.Get(ctx, "clip.mp3")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	require.Equal(t, "ID3data", string(data))
	require.Equal(t, "audio/mpeg", got.ContentType)

	objects, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	require.Equal(t, "clip.mp3", objects[0].Key)

	require.NoError(t, st.Delete(ctx, "clip.mp3"))
	_, _, err = st.Get(ctx, "clip.mp3")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = os.Stat(filepath.Join(dir, "clip.mp3"+metaSuffix))
	require.True(t, os.IsNotExist(err))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	st, err := newLocalStore(t.TempDir())
	require.NoError(t, err)
	_, err = st.Put(context.Background(), "../escape.mp3", bytes.NewReader(nil), PutOptions{})
	require.Error(t, err)
}

func TestLocalStoreGetWithoutSidecar(t *testing.T) {
	dir := t.TempDir()
	st, err := newLocalStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manual.mp3"), []byte("abc"), 0o644))

	rc, info, err := st.Get(context.Background(), "manual.mp3")
	require.NoError(t, err)
	rc.Close()
	require.Equal(t, int64(3), info.Size)
}

func TestEncryptedStoreRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	dir := t.TempDir()
	backend, err := newLocalStore(dir)
	require.NoError(t, err)
	st, err := wrap(backend, base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	ctx := context.Background()

	info, err := st.Put(ctx, "secret.mp3", bytes.NewReader([]byte("plain audio")), PutOptions{ContentType: "audio/mpeg"})
	require.NoError(t, err)
	require.True(t, info.Encrypted)

	raw, err := os.ReadFile(filepath.Join(dir, "secret.mp3"))
	require.NoError(t, err)
	require.NotContains(t, string(raw), "plain audio")

	rc, got, err := st.Get(ctx, "secret.mp3")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "plain audio", string(data))
	require.True(t, got.Encrypted)
	require.Equal(t, int64(len("plain audio")), got.Size)
}

func TestEncryptorRejectsBadKey(t *testing.T) {
	_, err := newEncryptor("not-base64!")
	require.Error(t, err)
	_, err = newEncryptor(base64.StdEncoding.EncodeToString([]byte("short")))
	require.Error(t, err)

	enc, err := newEncryptor("  ")
	require.NoError(t, err)
	require.Nil(t, enc)
}
