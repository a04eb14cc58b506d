// Package images stores product pictures, shrinking large ones on the way in.
package images

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
	"perfume-backend/internal/storage"
)

const URLPrefix = "/api/images/"

type Options struct {
	OptimizationEnabled bool
	// Threshold is the size in bytes above which an image is optimized.
	Threshold    int64
	MaxDimension int
	JPEGQuality  int
	MaxFiles     int
	Workers      int
	Timeout      time.Duration
}

func DefaultOptions() Options {
	return Options{
		OptimizationEnabled: true,
		Threshold:           2097152,
		MaxDimension:        1600,
		JPEGQuality:         75,
		MaxFiles:            models.MaxProductImages,
		Workers:             4,
		Timeout:             30 * time.Second,
	}
}

// File is an upload as received from the client.
type File struct {
	Name        string
	Data        []byte
	ContentType string
}

// Image is a stored file read back for serving.
type Image struct {
	Name         string
	Data         []byte
	ContentType  string
	Size         int64
	LastModified time.Time
}

type Store struct {
	backend   storage.Backend
	opts      Options
	optimizer optimizer
	logger    *slog.Logger
	newName   func(ext string) string
}

func NewStore(backend storage.Backend, opts Options, logger *slog.Logger) *Store {
	defaults := DefaultOptions()
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = defaults.MaxFiles
	}
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = defaults.MaxDimension
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = defaults.JPEGQuality
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend:   backend,
		opts:      opts,
		optimizer: optimizer{maxDimension: opts.MaxDimension, jpegQuality: opts.JPEGQuality},
		logger:    logger.With("component", "images"),
		newName: func(ext string) string {
			return uuid.NewString() + ext
		},
	}
}

// Store persists up to MaxFiles uploads and returns their public URLs. Files
// beyond the limit and empty entries are skipped. A file that fails to store
// contributes no URL; the rest of the batch is unaffected.
func (s *Store) Store(ctx context.Context, files []File) []string {
	var accepted []File
	for _, f := range files {
		if len(accepted) == s.opts.MaxFiles {
			s.logger.Warn("upload limit reached, dropping remaining files", "limit", s.opts.MaxFiles, "received", len(files))
			break
		}
		if strings.TrimSpace(f.Name) == "" || len(f.Data) == 0 {
			continue
		}
		accepted = append(accepted, f)
	}
	if len(accepted) == 0 {
		return []string{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var mu sync.Mutex
	collected := false
	slots := make([]string, len(accepted))

	g := new(errgroup.Group)
	g.SetLimit(min(len(accepted), s.opts.Workers))
	for i, f := range accepted {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic storing %s: %v", f.Name, r)
					s.logger.Error("image worker panicked", "file", f.Name, "panic", r)
				}
			}()
			name, err := s.storeOne(ctx, f)
			if err != nil {
				s.logger.Error("failed to store image", "file", f.Name, "error", err)
				return err
			}
			mu.Lock()
			late := collected
			if !late {
				slots[i] = URLPrefix + name
			}
			mu.Unlock()
			if late {
				s.discard(name)
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("image upload batch timed out", "timeout", s.opts.Timeout)
	}

	mu.Lock()
	defer mu.Unlock()
	collected = true
	urls := make([]string, 0, len(slots))
	for _, url := range slots {
		if url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// storeOne persists f and returns its generated name.
func (s *Store) storeOne(ctx context.Context, f File) (string, error) {
	ext := strings.ToLower(filepath.Ext(f.Name))
	name := s.newName(ext)
	data := s.maybeOptimize(f, ext)

	contentType := mimetype.Detect(data).String()
	if err := s.backend.Put(ctx, name, data, contentType); err != nil {
		return "", apperror.IO(err, "store %s", name)
	}
	s.logger.Info("image stored", "name", name, "original", f.Name, "size", len(data), "originalSize", len(f.Data))
	return name, nil
}

// discard removes an image that finished after its batch already returned,
// so no stored file is left without a URL pointing at it.
func (s *Store) discard(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.backend.Delete(ctx, name); err != nil && !errors.Is(err, storage.ErrNotExist) {
		s.logger.Warn("failed to remove late image", "name", name, "error", err)
		return
	}
	s.logger.Warn("removed image stored after batch timeout", "name", name)
}

// maybeOptimize returns the bytes to persist. Any optimization failure falls
// back to the original upload.
func (s *Store) maybeOptimize(f File, ext string) []byte {
	if !s.opts.OptimizationEnabled || int64(len(f.Data)) <= s.opts.Threshold {
		return f.Data
	}
	if _, ok := optimizableExtensions[ext]; !ok {
		return f.Data
	}
	if detected := mimetype.Detect(f.Data); !strings.HasPrefix(detected.String(), "image/") {
		s.logger.Warn("upload has an image extension but is not an image", "file", f.Name, "detected", detected.String())
		return f.Data
	}

	optimized, err := s.optimizer.optimize(f.Data)
	if err != nil {
		s.logger.Warn("image optimization failed, storing original", "file", f.Name, "error", err)
		return f.Data
	}
	if len(optimized) >= len(f.Data) {
		return f.Data
	}
	return optimized
}

// Retrieve reads a stored image. Missing, unreadable and out-of-root names
// are all reported as NotFound.
func (s *Store) Retrieve(ctx context.Context, name string) (Image, error) {
	obj, err := s.backend.Get(ctx, name)
	if err != nil {
		if !errors.Is(err, storage.ErrNotExist) && !errors.Is(err, storage.ErrInvalidName) {
			s.logger.Error("failed to read image", "name", name, "error", err)
		}
		return Image{}, apperror.NotFound("image %s not found", name)
	}
	return Image{
		Name:         name,
		Data:         obj.Data,
		ContentType:  ContentTypeFor(name),
		Size:         obj.Size,
		LastModified: obj.ModTime,
	}, nil
}

// Delete removes a stored image and reports whether it existed.
func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	err := s.backend.Delete(ctx, name)
	switch {
	case err == nil:
		s.logger.Info("image deleted", "name", name)
		return true, nil
	case errors.Is(err, storage.ErrNotExist), errors.Is(err, storage.ErrInvalidName):
		return false, nil
	default:
		return false, apperror.IO(err, "delete %s", name)
	}
}

// NameFromURL extracts the stored file name from a URL returned by Store.
func NameFromURL(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// ContentTypeFor infers the served content type from the file extension.
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
