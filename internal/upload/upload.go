// Package upload passes media files through to an external host.
// It stores nothing itself; callers keep the returned URL.
package upload

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

var ErrUploadFailed = errors.New("upload failed")
var ErrDeleteFailed = errors.New("delete failed")

// Result is what the provider reports back about a stored file.
type Result struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	ResourceType string `json:"resourceType"`
	Format       string `json:"format"`
}

// Store is the media-host capability. Implementations trust their input:
// size and MIME policy are the caller's job (see Validate).
type Store interface {
	Upload(ctx context.Context, data []byte, fileName, folder string) (*Result, error)
	Delete(ctx context.Context, publicID string) error
}

// stripExt drops the filename extension for the provider-side identifier.
func stripExt(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// format returns the bare extension, e.g. "jpg" for photo.jpg.
func format(fileName string) string {
	return strings.TrimPrefix(filepath.Ext(fileName), ".")
}
