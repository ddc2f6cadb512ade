// Package objectstore persists uploaded media (job photos, company logos)
// under a local directory served at a public base URL.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxUploadBytes caps a single upload.
const MaxUploadBytes = 10 << 20

var allowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// Store writes objects below Dir and reports URLs below BaseURL.
type Store struct {
	dir     string
	baseURL string
}

// New constructs a Store, creating the directory if needed.
func New(dir, baseURL string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("objectstore: dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("objectstore: mkdir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Key builds an object key of the form
// {tenant}/{entity}/{purpose}-{timestamp}.{ext}. A short random component
// keeps two uploads inside the same second from colliding.
func Key(companyID int64, entity, purpose, ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("objectstore: extension %q not allowed", ext)
	}
	entity = sanitizeSegment(entity)
	purpose = sanitizeSegment(purpose)
	if entity == "" || purpose == "" {
		return "", fmt.Errorf("objectstore: entity and purpose required")
	}
	stamp := time.Now().UTC().Format("20060102T150405")
	rand := uuid.NewString()[:8]
	return fmt.Sprintf("%d/%s/%s-%s-%s.%s", companyID, entity, purpose, stamp, rand, ext), nil
}

// Put writes the object and returns its public URL. Reads are capped at
// MaxUploadBytes.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := path.Clean(key)
	if clean != key || strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
		return "", fmt.Errorf("objectstore: invalid key %q", key)
	}
	target := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("objectstore: mkdir: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("objectstore: create: %w", err)
	}
	tmp := f.Name()
	written, err := io.Copy(f, io.LimitReader(r, MaxUploadBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > MaxUploadBytes {
		err = fmt.Errorf("objectstore: object exceeds %d bytes", MaxUploadBytes)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("objectstore: rename: %w", err)
	}
	return s.baseURL + "/" + clean, nil
}

// Dir exposes the storage root so the router can serve it.
func (s *Store) Dir() string { return s.dir }

func sanitizeSegment(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
