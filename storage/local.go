package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// UploadsPath is where LocalStore objects are served from.
const UploadsPath = "/uploads"

type LocalStore struct {
	fs      afero.Fs
	dir     string
	baseURL string
}

func NewLocalStore(fs afero.Fs, dir, publicBaseURL string) (*LocalStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &LocalStore{fs: fs, dir: dir, baseURL: publicBaseURL}, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := filepath.Join(s.dir, filepath.Base(key))
	f, err := s.fs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", name, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(name)
		return "", fmt.Errorf("write %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %q: %w", name, err)
	}

	return joinURL(s.baseURL, UploadsPath+"/"+filepath.Base(key)), nil
}

// FileSystem exposes the upload directory for static serving.
func (s *LocalStore) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs).Dir(s.dir)
}
