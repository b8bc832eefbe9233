// Package cloudinary uploads report photos to Cloudinary and hands back
// the CDN URL.
package cloudinary

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"cleancity/collab"
)

const uploadFolder = "cleancity/reports"

// Uploader implements collab.ImageHost on the Cloudinary SDK.
type Uploader struct {
	cld *cloudinary.Cloudinary
}

var _ collab.ImageHost = (*Uploader)(nil)

func NewUploader(cloudName, apiKey, apiSecret string) (*Uploader, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary configuration is missing")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Uploader{cld: cld}, nil
}

func (u *Uploader) Upload(ctx context.Context, image []byte, name string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	publicID := strings.TrimSuffix(name, ".jpg")
	if publicID == "" {
		publicID = "report"
	}

	result, err := u.cld.Upload.Upload(ctx, bytes.NewReader(image), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       uploadFolder,
		ResourceType: "image",
		Format:       "jpg",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}

	return result.SecureURL, nil
}
