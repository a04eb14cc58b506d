package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/storage"
)

func newTestStore(t *testing.T, opts Options) (*Store, *storage.Local) {
	t.Helper()
	backend, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return NewStore(backend, opts, nil), backend
}

func noisyJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	return buf.Bytes()
}

func nameOf(t *testing.T, url string) string {
	t.Helper()
	name, ok := NameFromURL(url)
	require.True(t, ok, url)
	return name
}

func TestStoreKeepsAtMostFourFiles(t *testing.T) {
	store, _ := newTestStore(t, DefaultOptions())

	var files []File
	for i := 0; i < 5; i++ {
		files = append(files, File{Name: "photo.PNG", Data: []byte{byte(i + 1)}})
	}

	urls := store.Store(context.Background(), files)
	require.Len(t, urls, 4)
	for _, url := range urls {
		assert.True(t, strings.HasPrefix(url, URLPrefix))
		assert.True(t, strings.HasSuffix(url, ".png"), "extension is lower-cased")
	}
}

func TestStoreSkipsEmptyEntries(t *testing.T) {
	store, _ := newTestStore(t, DefaultOptions())

	urls := store.Store(context.Background(), []File{
		{Name: "", Data: []byte("x")},
		{Name: "empty.jpg"},
		{Name: "ok.jpg", Data: []byte("x")},
	})
	assert.Len(t, urls, 1)
	assert.Empty(t, store.Store(context.Background(), nil))
}

func TestStoreBelowThresholdIsByteIdentical(t *testing.T) {
	store, _ := newTestStore(t, DefaultOptions())
	data := noisyJPEG(t, 64, 32)

	urls := store.Store(context.Background(), []File{{Name: "small.jpg", Data: data}})
	require.Len(t, urls, 1)

	img, err := store.Retrieve(context.Background(), nameOf(t, urls[0]))
	require.NoError(t, err)
	assert.Equal(t, data, img.Data)
	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Equal(t, int64(len(data)), img.Size)
}

func TestStoreResizesLargeImages(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = 1024
	store, _ := newTestStore(t, opts)
	data := noisyJPEG(t, 2400, 1200)

	urls := store.Store(context.Background(), []File{{Name: "big.jpg", Data: data}})
	require.Len(t, urls, 1)

	img, err := store.Retrieve(context.Background(), nameOf(t, urls[0]))
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1600, cfg.Width)
	assert.Equal(t, 800, cfg.Height)
	assert.Less(t, len(img.Data), len(data))
}

func TestStoreKeepsOriginalWhenOptimizationFails(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = 4
	store, _ := newTestStore(t, opts)
	data := []byte("this is not really a jpeg at all")

	urls := store.Store(context.Background(), []File{{Name: "fake.jpg", Data: data}})
	require.Len(t, urls, 1)

	img, err := store.Retrieve(context.Background(), nameOf(t, urls[0]))
	require.NoError(t, err)
	assert.Equal(t, data, img.Data)
}

func TestStoreOptimizationDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.OptimizationEnabled = false
	opts.Threshold = 1
	store, _ := newTestStore(t, opts)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2000, 10))))

	urls := store.Store(context.Background(), []File{{Name: "wide.png", Data: buf.Bytes()}})
	require.Len(t, urls, 1)
	img, err := store.Retrieve(context.Background(), nameOf(t, urls[0]))
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), img.Data)
}

type flakyBackend struct {
	storage.Backend
}

func (f flakyBackend) Put(ctx context.Context, name string, data []byte, contentType string) error {
	if string(data) == "bad" {
		return errors.New("disk full")
	}
	return f.Backend.Put(ctx, name, data, contentType)
}

func TestStoreFailedFileContributesNoURL(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	store := NewStore(flakyBackend{Backend: local}, DefaultOptions(), nil)

	urls := store.Store(context.Background(), []File{
		{Name: "a.jpg", Data: []byte("good")},
		{Name: "b.jpg", Data: []byte("bad")},
		{Name: "c.jpg", Data: []byte("good")},
	})
	assert.Len(t, urls, 2)
}

// stalledBackend holds every write until release is closed and then completes
// it regardless of the caller's deadline.
type stalledBackend struct {
	*storage.Local
	release chan struct{}
	deleted chan string
}

func (b stalledBackend) Put(_ context.Context, name string, data []byte, contentType string) error {
	<-b.release
	return b.Local.Put(context.Background(), name, data, contentType)
}

func (b stalledBackend) Delete(ctx context.Context, name string) error {
	err := b.Local.Delete(ctx, name)
	b.deleted <- name
	return err
}

func TestStoreRemovesImagesFinishedAfterTimeout(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	backend := stalledBackend{Local: local, release: make(chan struct{}), deleted: make(chan string, 1)}
	opts := DefaultOptions()
	opts.Timeout = 20 * time.Millisecond
	store := NewStore(backend, opts, nil)

	urls := store.Store(context.Background(), []File{{Name: "slow.jpg", Data: []byte("slow")}})
	assert.Empty(t, urls)

	close(backend.release)
	select {
	case name := <-backend.deleted:
		assert.True(t, strings.HasSuffix(name, ".jpg"), name)
	case <-time.After(2 * time.Second):
		t.Fatal("late image was never removed")
	}
	entries, err := os.ReadDir(local.Root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRetrieveMissingAndTraversal(t *testing.T) {
	store, _ := newTestStore(t, DefaultOptions())

	for _, name := range []string{"missing.png", "../../etc/passwd", "..", "a/b.png"} {
		_, err := store.Retrieve(context.Background(), name)
		require.Error(t, err, name)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err), name)
	}
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t, DefaultOptions())
	urls := store.Store(context.Background(), []File{{Name: "a.gif", Data: []byte("GIF89a")}})
	require.Len(t, urls, 1)
	name := nameOf(t, urls[0])

	removed, err := store.Delete(context.Background(), name)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(context.Background(), name)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFitWithin(t *testing.T) {
	cases := []struct {
		w, h, bound, wantW, wantH int
	}{
		{3200, 1600, 1600, 1600, 800},
		{1000, 4000, 1600, 400, 1600},
		{800, 600, 1600, 800, 600},
		{1600, 1600, 1600, 1600, 1600},
	}
	for _, tc := range cases {
		w, h := fitWithin(tc.w, tc.h, tc.bound)
		assert.Equal(t, tc.wantW, w)
		assert.Equal(t, tc.wantH, h)
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeFor("a.JPG"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("a.jpeg"))
	assert.Equal(t, "image/webp", ContentTypeFor("a.webp"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("a.bmp"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("noext"))
}
