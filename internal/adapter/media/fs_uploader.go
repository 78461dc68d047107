package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"quiz-bank/internal/domain"
)

// FSUploader writes files below a local directory that the API serves statically.
type FSUploader struct {
	base          string
	publicBaseURL string
}

func NewFSUploader(base, publicBaseURL string) (*FSUploader, error) {
	if base == "" {
		base = "./data/media"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSUploader{base: base, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// BaseDir is the directory to expose under the public base URL.
func (u *FSUploader) BaseDir() string {
	return u.base
}

func (u *FSUploader) Upload(ctx context.Context, folder string, file *domain.MediaFile) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", errors.New("empty file")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey(folder, file)
	dst := filepath.Join(u.base, filepath.Clean(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, file.Data, 0o644); err != nil {
		return "", err
	}
	return u.publicBaseURL + "/" + key, nil
}

var _ domain.MediaUploader = (*FSUploader)(nil)
