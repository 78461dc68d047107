package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"quiz-bank/internal/domain"
	"quiz-bank/internal/logger"

	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

// SupabaseUploader stores files in a public Supabase Storage bucket.
type SupabaseUploader struct {
	client *storage_go.Client
	bucket string
}

// NewSupabaseUploader creates an uploader for the project at projectURL.
func NewSupabaseUploader(projectURL, apiKey, bucket string) (*SupabaseUploader, error) {
	if projectURL == "" || apiKey == "" || bucket == "" {
		return nil, errors.New("missing supabase url, key, or bucket name")
	}
	client := storage_go.NewClient(strings.TrimRight(projectURL, "/")+"/storage/v1", apiKey, nil)
	return &SupabaseUploader{client: client, bucket: bucket}, nil
}

type uploadResult struct {
	url string
	err error
}

// Upload returns the public URL of the stored object. The storage client has no
// context support, so cancellation only stops the wait.
func (u *SupabaseUploader) Upload(ctx context.Context, folder string, file *domain.MediaFile) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", errors.New("empty file")
	}
	key := objectKey(folder, file)
	ct := contentType(file)
	upsert := false

	done := make(chan uploadResult, 1)
	go func() {
		_, err := u.client.UploadFile(u.bucket, key, bytes.NewReader(file.Data), storage_go.FileOptions{
			ContentType: &ct,
			Upsert:      &upsert,
		})
		if err != nil {
			done <- uploadResult{err: fmt.Errorf("supabase upload %s: %w", key, err)}
			return
		}
		done <- uploadResult{url: u.client.GetPublicUrl(u.bucket, key).SignedURL}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err == nil {
			logger.Get().Info("Uploaded image to supabase",
				zap.String("bucket", u.bucket),
				zap.String("key", key))
		}
		return res.url, res.err
	}
}

var _ domain.MediaUploader = (*SupabaseUploader)(nil)
