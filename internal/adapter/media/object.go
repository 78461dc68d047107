package media

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"quiz-bank/internal/domain"

	"github.com/google/uuid"
)

var imageExtensions = map[string]string{
	"image/png":    ".png",
	"image/jpeg":   ".jpg",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
}

// objectKey returns "<folder>/<uuid><ext>" for file. The extension follows the
// sniffed content, never the client filename.
func objectKey(folder string, file *domain.MediaFile) string {
	return path.Join(strings.Trim(folder, "/"), uuid.NewString()+extension(file))
}

func extension(file *domain.MediaFile) string {
	ct := sniff(file)
	if ext, ok := imageExtensions[ct]; ok {
		return ext
	}
	if strings.HasPrefix(ct, "image/") {
		if exts, err := mime.ExtensionsByType(ct); err == nil && len(exts) > 0 {
			return exts[0]
		}
	}
	return ""
}

func sniff(file *domain.MediaFile) string {
	ct, _, _ := strings.Cut(http.DetectContentType(file.Data), ";")
	return ct
}

func contentType(file *domain.MediaFile) string {
	if ct := sniff(file); strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "application/octet-stream"
}
