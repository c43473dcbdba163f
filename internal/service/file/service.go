package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

type FileService interface {
	// UploadReportExport stores a rendered report under the user's folder and returns its key
	UploadReportExport(ctx context.Context, userID string, file io.Reader, filename string, contentType string) (string, error)

	// PruneReportExports deletes exports last written before cutoff
	PruneReportExports(ctx context.Context, cutoff time.Time) ([]string, error)

	// Generic operations
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

const reportsDir = "reports"

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadReportExport writes to reports/{userID}/{filename}. A clash with an
// earlier export gets a random suffix instead of overwriting it.
func (s *fileServiceImpl) UploadReportExport(ctx context.Context, userID string, file io.Reader, filename string, contentType string) (string, error) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(name))
	if ext != ".csv" && ext != ".xlsx" {
		return "", fmt.Errorf("invalid file type: only csv, xlsx allowed")
	}

	key := path.Join(reportsDir, userID, name)
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to check existing export: %w", err)
	}
	if exists {
		stem := strings.TrimSuffix(name, path.Ext(name))
		key = path.Join(reportsDir, userID, fmt.Sprintf("%s_%s%s", stem, uuid.NewString()[:8], ext))
	}

	uploadedPath, err := s.storage.Upload(ctx, file, key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload report export: %w", err)
	}

	return uploadedPath, nil
}

func (s *fileServiceImpl) PruneReportExports(ctx context.Context, cutoff time.Time) ([]string, error) {
	removed, err := s.storage.DeleteOlderThan(ctx, reportsDir, cutoff)
	if err != nil {
		return removed, fmt.Errorf("failed to prune report exports: %w", err)
	}
	return removed, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}
