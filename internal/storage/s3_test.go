package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deletes int
}

func newMemS3() *memS3 {
	return &memS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[aws.ToString(in.Key)] = data
	m.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (m *memS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:         io.NopCloser(bytes.NewReader(data)),
		ContentType:  aws.String(m.types[aws.ToString(in.Key)]),
		LastModified: aws.Time(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
	}, nil
}

func (m *memS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (m *memS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestBucketUsesPrefixedKeys(t *testing.T) {
	ctx := context.Background()
	api := newMemS3()
	bucket := NewBucket(api, "perfumes", "/images/")

	require.NoError(t, bucket.Put(ctx, "x.jpg", []byte("jpeg"), "image/jpeg"))
	assert.Contains(t, api.objects, "images/x.jpg")

	obj, err := bucket.Get(ctx, "x.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), obj.Data)
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Equal(t, 2024, obj.ModTime.Year())
}

func TestBucketMissingObjects(t *testing.T) {
	ctx := context.Background()
	api := newMemS3()
	bucket := NewBucket(api, "perfumes", "")

	_, err := bucket.Get(ctx, "nope.png")
	assert.ErrorIs(t, err, ErrNotExist)

	assert.ErrorIs(t, bucket.Delete(ctx, "nope.png"), ErrNotExist)
	assert.Zero(t, api.deletes)

	_, err = bucket.Get(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)
}
