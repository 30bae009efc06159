// Package imagehost wraps the third-party image hosting service.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-admin/internal/config"
)

// DummyPrefix marks public ids of images that were never hosted.
const DummyPrefix = "dummy-"

// ErrNotConfigured is returned by Handle.Host when credentials are missing.
var ErrNotConfigured = errors.New("image hosting not configured")

// Image is a hosted image reference.
type Image struct {
	URL      string
	PublicID string
}

// Host uploads and deletes hosted images.
type Host interface {
	Upload(ctx context.Context, r io.Reader) (Image, error)
	Delete(ctx context.Context, publicID string) error
}

// Handle is the process-wide hosting collaborator. Its zero value is unconfigured.
type Handle struct {
	host    Host
	missing []string
}

// NewHandle wraps an already configured host.
func NewHandle(host Host) Handle {
	return Handle{host: host}
}

// New builds a Cloudinary-backed handle, or an unconfigured one when credentials are absent
// or still hold placeholder values.
func New(cfg config.CloudinaryConfig, logger *zap.Logger) Handle {
	missing := MissingSettings(cfg)
	if len(missing) > 0 {
		logger.Warn("image hosting disabled", zap.Strings("missing", missing))
		return Handle{missing: missing}
	}
	host, err := NewCloudinary(cfg)
	if err != nil {
		logger.Error("image hosting init failed", zap.Error(err))
		return Handle{missing: []string{"CLOUDINARY_CLOUD_NAME"}}
	}
	logger.Info("image hosting configured", zap.String("cloud", cfg.CloudName))
	return Handle{host: host}
}

// Host returns the configured host or an error wrapping ErrNotConfigured.
func (h Handle) Host() (Host, error) {
	if h.host == nil {
		if len(h.missing) == 0 {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("%w: missing or invalid %s", ErrNotConfigured, strings.Join(h.missing, ", "))
	}
	return h.host, nil
}

// Configured reports whether uploads can be attempted.
func (h Handle) Configured() bool {
	return h.host != nil
}

var placeholders = map[string]string{
	"CLOUDINARY_CLOUD_NAME": "your-cloud-name",
	"CLOUDINARY_API_KEY":    "your-api-key",
	"CLOUDINARY_API_SECRET": "your-api-secret",
}

// MissingSettings lists the credential variables that are empty or placeholders.
func MissingSettings(cfg config.CloudinaryConfig) []string {
	values := []struct {
		key, val string
	}{
		{"CLOUDINARY_CLOUD_NAME", cfg.CloudName},
		{"CLOUDINARY_API_KEY", cfg.APIKey},
		{"CLOUDINARY_API_SECRET", cfg.APISecret},
	}
	var missing []string
	for _, v := range values {
		trimmed := strings.TrimSpace(v.val)
		if trimmed == "" || trimmed == placeholders[v.key] {
			missing = append(missing, v.key)
		}
	}
	return missing
}

// IsHosted reports whether publicID refers to an image that actually lives on the host.
func IsHosted(publicID string) bool {
	return publicID != "" && !strings.HasPrefix(publicID, DummyPrefix)
}
