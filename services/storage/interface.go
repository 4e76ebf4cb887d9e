package storage

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
)

// StorageService uploads blobs and returns retrievable URLs.
type StorageService interface {
	// UploadFile uploads the file contents into the given folder and
	// returns its public URL.
	UploadFile(ctx context.Context, file io.Reader, destFolder string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
}

// StorageServiceImpl is the Cloudinary-backed implementation.
type StorageServiceImpl struct {
	cld *cloudinary.Cloudinary
}
