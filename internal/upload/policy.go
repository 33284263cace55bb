package upload

import "fmt"

// MaxFileSize caps uploads at 50 MB.
const MaxFileSize = 50 << 20

// Accepted MIME types per category. Anything else is rejected before a
// single byte goes to the provider.
var acceptedTypes = map[string]string{
	"image/jpeg": "image",
	"image/png":  "image",
	"image/gif":  "image",
	"image/webp": "image",

	"audio/mpeg": "audio",
	"audio/wav":  "audio",
	"audio/ogg":  "audio",
	"audio/mp4":  "audio",
	"audio/aac":  "audio",

	"application/pdf":    "document",
	"application/msword": "document",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "document",
}

type PolicyError struct {
	msg string
}

func (e *PolicyError) Error() string { return e.msg }

// Validate enforces the acceptance policy on behalf of the adapter, which
// performs no validation of its own. The two rejection messages are
// deliberately distinct so the client can tell the cases apart.
func Validate(size int64, mimeType string) error {
	if size > MaxFileSize {
		return &PolicyError{msg: fmt.Sprintf("file too large: %d bytes exceeds the 50 MB limit", size)}
	}
	if _, ok := acceptedTypes[mimeType]; !ok {
		return &PolicyError{msg: fmt.Sprintf("unsupported file type %q: accepted categories are image, audio and document", mimeType)}
	}
	return nil
}

// Category maps an accepted MIME type to its resource category
// (image/audio/document); empty for unknown types.
func Category(mimeType string) string {
	return acceptedTypes[mimeType]
}
