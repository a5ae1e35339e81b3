package catalog

import (
	"context"
	"io"
	"time"
)

// ObjectStorage stores product images. Clients upload directly to the
// presigned URL; the API only records the storage key.
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	PublicURL(storageKey string) string
}

// ProductExporter renders a seller's products as a spreadsheet
type ProductExporter interface {
	WriteProducts(w io.Writer, products []ProductResponse) error
	ContentType() string
	FileExtension() string
}

// AllowedImageTypes maps accepted image content types to file extensions
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageUploadExpiry is how long a presigned upload URL stays valid
const ImageUploadExpiry = 15 * time.Minute
