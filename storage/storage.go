// Package storage puts uploaded objects somewhere a browser can fetch them.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// ObjectStore saves an object under key and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path.Clean("/"+key), "/")
}
