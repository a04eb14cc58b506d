// Package storage holds the byte stores uploaded images are written to.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotExist is returned by Get and Delete when no object has the name.
var ErrNotExist = errors.New("storage: object does not exist")

// ErrInvalidName is returned for names that would escape the store.
var ErrInvalidName = errors.New("storage: invalid object name")

type Object struct {
	Data        []byte
	Size        int64
	ModTime     time.Time
	ContentType string
}

type Backend interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Get(ctx context.Context, name string) (Object, error)
	Delete(ctx context.Context, name string) error
}
