package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local stores objects as files directly under Root.
type Local struct {
	Root string
}

func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", abs, err)
	}
	return &Local{Root: filepath.Clean(abs)}, nil
}

// resolve refuses any name whose cleaned path is not a direct child of Root.
func (l *Local) resolve(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.ContainsAny(trimmed, `/\`) || strings.Contains(trimmed, "..") {
		return "", ErrInvalidName
	}
	target := filepath.Clean(filepath.Join(l.Root, trimmed))
	if filepath.Dir(target) != l.Root {
		return "", ErrInvalidName
	}
	return target, nil
}

// Put writes data under name. A cancelled or expired ctx aborts the write.
func (l *Local) Put(ctx context.Context, name string, data []byte, _ string) error {
	target, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return os.WriteFile(target, data, 0o644)
}

func (l *Local) Get(_ context.Context, name string) (Object, error) {
	target, err := l.resolve(name)
	if err != nil {
		return Object{}, err
	}
	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Object{}, ErrNotExist
		}
		return Object{}, err
	}
	if !info.Mode().IsRegular() {
		return Object{}, ErrNotExist
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return Object{}, err
	}
	return Object{Data: data, Size: info.Size(), ModTime: info.ModTime()}, nil
}

func (l *Local) Delete(_ context.Context, name string) error {
	target, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotExist
		}
		return err
	}
	return nil
}
