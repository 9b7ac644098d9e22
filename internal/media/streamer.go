// Package media streams stored media files to players with single-range
// support for seeking.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/storage"
)

// ErrUnsatisfiable is returned by ParseRange when the range starts past the end of the file.
var ErrUnsatisfiable = errors.New("range not satisfiable")

// ErrInterrupted marks a failure after the response headers were sent. The
// transport must not write anything further.
var ErrInterrupted = errors.New("media stream interrupted")

// Span is a byte range [Start, Start+Length).
type Span struct {
	Start  int64
	Length int64
}

func (s Span) End() int64 { return s.Start + s.Length - 1 }

// ParseRange interprets a Range header against a file of the given size.
// It returns partial=false for an absent, malformed or multi-range header,
// meaning the whole file should be sent. Only "bytes=<start>-[<end>]" and
// the suffix form "bytes=-<n>" produce a partial span.
func ParseRange(header string, size int64) (span Span, partial bool, err error) {
	full := Span{Start: 0, Length: size}
	header = strings.TrimSpace(header)
	if header == "" {
		return full, false, nil
	}
	ranges, ok := strings.CutPrefix(header, "bytes=")
	if !ok || strings.Contains(ranges, ",") {
		return full, false, nil
	}
	first, last, ok := strings.Cut(strings.TrimSpace(ranges), "-")
	if !ok {
		return full, false, nil
	}
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)

	if first == "" {
		n, perr := strconv.ParseInt(last, 10, 64)
		if errors.Is(perr, strconv.ErrRange) && isDigits(last) {
			n, perr = size, nil
		}
		if perr != nil || n <= 0 {
			return full, false, nil
		}
		if size == 0 {
			return Span{}, false, ErrUnsatisfiable
		}
		if n > size {
			n = size
		}
		return Span{Start: size - n, Length: n}, true, nil
	}

	start, perr := strconv.ParseInt(first, 10, 64)
	if errors.Is(perr, strconv.ErrRange) && isDigits(first) {
		return Span{}, false, ErrUnsatisfiable
	}
	if perr != nil || start < 0 {
		return full, false, nil
	}
	end := size - 1
	if last != "" {
		e, perr := strconv.ParseInt(last, 10, 64)
		switch {
		case errors.Is(perr, strconv.ErrRange) && isDigits(last):
			// an end beyond int64 is past any file; clamp to EOF
		case perr != nil || e < start:
			return full, false, nil
		case e < end:
			end = e
		}
	}
	if start >= size {
		return Span{}, false, ErrUnsatisfiable
	}
	return Span{Start: start, Length: end - start + 1}, true, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

type Streamer struct {
	backend storage.Backend
}

func NewStreamer(backend storage.Backend) *Streamer {
	return &Streamer{backend: backend}
}

// Serve writes the named file, or the requested part of it, to w. Errors
// returned before any header is written carry apperr kinds for the caller to
// map. Failures after that wrap ErrInterrupted; since Content-Length was
// already announced, the short body makes the server drop the connection.
func (s *Streamer) Serve(ctx context.Context, w http.ResponseWriter, name, rangeHeader string, headOnly bool) error {
	info, err := s.backend.Stat(ctx, name)
	if err != nil {
		return err
	}

	h := w.Header()
	h.Set("Accept-Ranges", "bytes")
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
	h.Set("Pragma", "no-cache")

	span, partial, err := ParseRange(rangeHeader, info.Size)
	if errors.Is(err, ErrUnsatisfiable) {
		h.Set("Content-Range", fmt.Sprintf("bytes */%d", info.Size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return nil
	}

	var body io.ReadCloser
	if !headOnly && span.Length > 0 {
		body, err = s.backend.Open(ctx, name, span.Start, span.Length)
		if err != nil {
			return err
		}
		defer body.Close()
	}

	h.Set("Content-Type", info.ContentType)
	h.Set("Content-Length", strconv.FormatInt(span.Length, 10))
	if !info.ModTime.IsZero() {
		h.Set("Last-Modified", info.ModTime.UTC().Format(http.TimeFormat))
	}
	status := http.StatusOK
	if partial {
		status = http.StatusPartialContent
		h.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", span.Start, span.End(), info.Size))
	}
	w.WriteHeader(status)

	if body == nil {
		return nil
	}
	written, err := io.CopyN(w, body, span.Length)
	if err != nil {
		if ctx.Err() != nil {
			log.Debug().Str("media", name).Int64("written", written).Msg("client went away during media stream")
		} else {
			log.Error().Err(err).Str("media", name).Int64("written", written).Int64("expected", span.Length).
				Msg("media stream failed")
		}
		return fmt.Errorf("%w: %s after %d of %d bytes: %v", ErrInterrupted, name, written, span.Length, err)
	}
	return nil
}
