// Package upload stores admin-uploaded files (product and category images)
// on local disk under generated names.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// PublicPrefix is the URL path the upload directory is served under.
const PublicPrefix = "/uploads"

// MaxSize is the largest upload accepted.
const MaxSize = 10 << 20

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

type Store struct {
	dir string
}

// NewStore creates dir if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes r under a fresh uuid name keeping the extension of original,
// and returns the public file_url.
func (s *Store) Save(ctx context.Context, original string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if !allowedExt[ext] {
		return "", apperr.Invalid("upload.Save", "file", "only jpg, png, gif and webp images are accepted")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", apperr.IO("upload.Save", err)
	}
	n, err := io.Copy(f, io.LimitReader(r, MaxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxSize {
		err = apperr.Invalid("upload.Save", "file", "file is larger than 10MB")
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", apperr.IO("upload.Save", err)
	}
	return path.Join(PublicPrefix, name), nil
}
