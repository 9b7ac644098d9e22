// Package storage resolves media names to bytes held on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
)

// Info describes a stored media file.
type Info struct {
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Backend is a read-only media store.
type Backend interface {
	// Stat returns apperr.NotFound for unknown names.
	Stat(ctx context.Context, name string) (Info, error)
	// Open returns a reader over length bytes starting at offset.
	Open(ctx context.Context, name string, offset, length int64) (io.ReadCloser, error)
}

// CleanName validates a client-supplied media name. Only a bare file name is
// accepted: separators, parent references and NUL bytes are rejected before
// any backend is consulted.
func CleanName(name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", apperr.BadRequest("invalid media name")
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return "", apperr.BadRequest("invalid media name")
	}
	if filepath.Base(name) != name || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", apperr.BadRequest("invalid media name")
	}
	return name, nil
}

// ContentTypeFor derives a MIME type from the file extension.
func ContentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".avi":
		return "video/x-msvideo"
	case ".mov":
		return "video/quicktime"
	case ".pdf":
		return "application/pdf"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
