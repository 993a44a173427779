package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"blog-cms/logger"
	"blog-cms/models"
	"blog-cms/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gosimple/slug"
)

type UploadService interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*models.UploadResponse, error)
}

type uploadService struct {
	store    storage.ObjectStore
	maxBytes int64
	now      func() time.Time
	log      logger.Logger
}

func NewUploadService(store storage.ObjectStore, maxBytes int64, log logger.Logger) UploadService {
	return &uploadService{store: store, maxBytes: maxBytes, now: time.Now, log: log}
}

func (s *uploadService) Upload(ctx context.Context, filename string, content io.Reader) (*models.UploadResponse, error) {
	// One extra byte is enough to tell an oversized file from one at the limit.
	data, err := io.ReadAll(io.LimitReader(content, s.maxBytes+1))
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("read upload: %w", err))
	}
	if len(data) == 0 {
		return nil, models.ErrorValidation{Message: "No file uploaded"}
	}
	if int64(len(data)) > s.maxBytes {
		return nil, models.ErrorValidation{Message: fmt.Sprintf("File exceeds the %d byte limit", s.maxBytes)}
	}

	mime := mimetype.Detect(data)
	if !isAllowedImage(mime.String()) {
		return nil, models.ErrorValidation{Message: "Only image uploads are allowed"}
	}

	key := fmt.Sprintf("%d-%s", s.now().UnixNano(), sanitizeFilename(filename, mime.Extension()))
	location, err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mime.String())
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	s.log.Info("file uploaded", "key", key, "mime", mime.String(), "bytes", len(data))
	return &models.UploadResponse{Location: location}, nil
}

// SVG is scriptable, so it is served as a document and not accepted here.
func isAllowedImage(mime string) bool {
	return strings.HasPrefix(mime, "image/") && !strings.HasPrefix(mime, "image/svg")
}

func sanitizeFilename(name, detectedExt string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	if len(ext) < 2 || len(ext) > 8 || slug.Make(ext[1:]) != ext[1:] {
		ext = detectedExt
	}
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	return stem + ext
}
