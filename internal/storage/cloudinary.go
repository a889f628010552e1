package storage

import (
	"context"
	"fmt"
	"io"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageUploader stores an image and returns its public URL
type ImageUploader interface {
	UploadImage(ctx context.Context, folder, publicID string, data io.Reader) (string, error)
}

// CloudinaryUploader uploads images to Cloudinary
type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

// NewCloudinaryUploader builds an uploader from a cloudinary:// URL
func NewCloudinaryUploader(url string) (*CloudinaryUploader, error) {
	client, err := cld.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: client}, nil
}

func (u *CloudinaryUploader) UploadImage(ctx context.Context, folder, publicID string, data io.Reader) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, data, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}

	return res.SecureURL, nil
}
