package imagehost

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/spec-kit/catalog-admin/internal/config"
)

const (
	// limit to 800x800 keeping the aspect ratio, then let the host pick the quality
	uploadTransformation = "c_limit,h_800,w_800/q_auto"
	defaultFolder        = "ecommerce-products"
)

var allowedFormats = api.CldAPIArray{"jpg", "jpeg", "png", "gif", "webp"}

// Cloudinary is a Host backed by the Cloudinary upload API.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary creates a client from explicit credentials.
func NewCloudinary(cfg config.CloudinaryConfig) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	folder := cfg.Folder
	if folder == "" {
		folder = defaultFolder
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

// Upload streams r to the host and returns the secure URL.
func (c *Cloudinary) Upload(ctx context.Context, r io.Reader) (Image, error) {
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         c.folder,
		ResourceType:   "image",
		AllowedFormats: allowedFormats,
		Transformation: uploadTransformation,
	})
	if err != nil {
		return Image{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return Image{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" || res.PublicID == "" {
		return Image{}, errors.New("cloudinary upload: no result returned")
	}
	return Image{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete removes a hosted image. Ids of images that were never hosted are ignored.
func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	if !IsHosted(publicID) {
		return nil
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	return nil
}
