package domain

import "context"

// MediaFile is an uploaded file held in memory.
type MediaFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// MediaUploader stores a file with a media host and returns its public URL.
type MediaUploader interface {
	Upload(ctx context.Context, folder string, file *MediaFile) (string, error)
}
