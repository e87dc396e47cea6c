// Package blob is the file upload boundary used for dealer logos and defect
// report attachments.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("file exceeds upload limit")

// Store persists a file and returns the public URL it is served from.
type Store interface {
	Put(ctx context.Context, folder, filename string, r io.Reader) (string, error)
}

// LocalStore keeps uploads on the local filesystem.
type LocalStore struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewLocalStore(dir, publicBaseURL string, maxBytes int64) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/"), maxBytes: maxBytes}
}

func (s *LocalStore) Put(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	folder = sanitize(folder, "misc")
	target := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	base := sanitize(strings.TrimSuffix(filepath.Base(filename), ext), "file")
	// uuid suffix keeps two uploads within the same second apart
	name := time.Now().Format("20060102_150405") + "_" + uuid.NewString()[:8] + "_" + base + strings.ToLower(ext)

	dst, err := os.Create(filepath.Join(target, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("save file: %w", err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		os.Remove(dst.Name())
		return "", ErrTooLarge
	}
	return s.baseURL + "/" + path.Join(folder, name), nil
}

// Handler serves stored files; mount it under the public base URL.
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix(s.baseURL+"/", http.FileServer(http.Dir(s.dir)))
}

func sanitize(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "..", "_")
	return r.Replace(s)
}
