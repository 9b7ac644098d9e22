package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
)

type LocalBackend struct {
	root string
}

// NewLocalBackend serves files directly under root.
func NewLocalBackend(root string) (*LocalBackend, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving media root %q: %w", root, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	} else {
		log.Warn().Err(err).Str("media_root", abs).Msg("media root not resolvable yet")
	}
	return &LocalBackend{root: abs}, nil
}

func (l *LocalBackend) Root() string { return l.root }

// resolve maps name to a canonical path and verifies it stays inside root,
// following symlinks before the containment check.
func (l *LocalBackend) resolve(name string) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	full := filepath.Join(l.root, clean)
	real, err := filepath.EvalSymlinks(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.NotFound("media not found")
		}
		return "", apperr.Internal("resolving media path", err)
	}
	rel, err := filepath.Rel(l.root, real)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		log.Warn().Str("name", name).Str("resolved", real).Msg("media path escapes root")
		return "", apperr.NotFound("media not found")
	}
	return real, nil
}

func (l *LocalBackend) Stat(_ context.Context, name string) (Info, error) {
	path, err := l.resolve(name)
	if err != nil {
		return Info{}, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, apperr.NotFound("media not found")
		}
		return Info{}, apperr.Internal("stat media", err)
	}
	if !fi.Mode().IsRegular() {
		return Info{}, apperr.NotFound("media not found")
	}
	return Info{
		Name:        name,
		Size:        fi.Size(),
		ModTime:     fi.ModTime(),
		ContentType: ContentTypeFor(name),
	}, nil
}

type sectionReadCloser struct {
	io.Reader
	io.Closer
}

func (l *LocalBackend) Open(_ context.Context, name string, offset, length int64) (io.ReadCloser, error) {
	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("media not found")
		}
		return nil, apperr.Internal("open media", err)
	}
	return sectionReadCloser{Reader: io.NewSectionReader(f, offset, length), Closer: f}, nil
}
