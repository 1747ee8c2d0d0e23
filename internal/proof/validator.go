package proof

import "errors"

// MaxFileSize is the upload ceiling for proof documents, 100KiB.
const MaxFileSize = 100 * 1024

var (
	ErrFileTooLarge        = errors.New("proof file exceeds 100KB limit")
	ErrUnsupportedFileType = errors.New("proof file must be a JPEG, PNG, WebP image or a PDF")
)

var allowedTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"application/pdf": {},
}

// Validate checks a candidate proof file's declared media type and size.
// Size is checked first so an oversized file of any type reports
// ErrFileTooLarge. Enforced server-side on every upload; client-side
// checks are advisory only.
func Validate(declaredType string, size int64) error {
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	if _, ok := allowedTypes[declaredType]; !ok {
		return ErrUnsupportedFileType
	}
	return nil
}
