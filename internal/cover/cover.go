// Package cover turns an image file into the data URI stored on a card.
package cover

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxBytes is the largest image accepted as a cover
const MaxBytes = 2 << 20

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("image is too large")
)

const chunkSize = 32 << 10

// Load reads path and returns it as a base64 data URI. The read stops with
// ctx.Err() as soon as ctx is cancelled.
func Load(ctx context.Context, path string, maxBytes int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path = expandHome(strings.TrimSpace(path))

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening cover: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("reading cover: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: %w", path, ErrNotImage)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return "", fmt.Errorf("%s: %w", path, ErrTooLarge)
	}

	data, err := readAll(ctx, f, maxBytes)
	if err != nil {
		return "", err
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s: %w", path, ErrNotImage)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func readAll(ctx context.Context, r io.Reader, maxBytes int64) ([]byte, error) {
	var out []byte
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if maxBytes > 0 && int64(len(out)) > maxBytes {
			return nil, ErrTooLarge
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading cover: %w", err)
		}
	}
}

// MIME returns the media type of a data URI, or "" if uri is not one
func MIME(uri string) string {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return ""
	}
	mime, _, _ := strings.Cut(rest, ";")
	return mime
}

// Size returns the decoded byte length of a base64 data URI
func Size(uri string) int {
	_, payload, ok := strings.Cut(uri, ";base64,")
	if !ok {
		return 0
	}
	return base64.StdEncoding.DecodedLen(len(payload)) - strings.Count(payload[max(len(payload)-2, 0):], "=")
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
