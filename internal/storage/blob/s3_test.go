package blob

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	mod     time.Time
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = string(data)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("audio/mpeg"),
		LastModified:  aws.Time(f.mod),
	}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	for key, data := range f.objects {
		if !strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			continue
		}
		out.Contents = append(out.Contents, s3types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(data))),
			LastModified: aws.Time(f.mod),
		})
	}
	return out, nil
}

func TestS3StorePrefixedKeys(t *testing.T) {
	mod := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fake := &fakeS3{objects: map[string]string{"other/x.mp3": "zzz"}, mod: mod}
	st := &s3Store{client: fake, bucket: "bucket", prefix: "audio"}
	ctx := context.Background()

	_, err := st.Put(ctx, "a.mp3", strings.NewReader("abc"), PutOptions{ContentType: "audio/mpeg"})
	require.NoError(t, err)
	require.Contains(t, fake.objects, "audio/a.mp3")

	rc, info, err := st.Get(ctx, "a.mp3")
	require.NoError(t, err)
	rc.Close()
	require.Equal(t, int64(3), info.Size)
	require.Equal(t, mod, info.ModTime)

	objects, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	require.Equal(t, "a.mp3", objects[0].Key)

	require.NoError(t, st.Delete(ctx, "a.mp3"))
	_, _, err = st.Get(ctx, "a.mp3")
	require.ErrorIs(t, err, ErrNotFound)
}
