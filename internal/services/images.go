package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// ImageFolder is the Cloudinary folder and local subdirectory for journal images.
const ImageFolder = "mindjourney/journal"

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	SaveImage(ctx context.Context, userID, filename, contentType string, body io.Reader) (string, error)
}

// CloudinaryImages uploads to Cloudinary.
type CloudinaryImages struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryImages(cloudName, apiKey, apiSecret string) (*CloudinaryImages, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryImages{cld: cld}, nil
}

func (s *CloudinaryImages) SaveImage(ctx context.Context, userID, filename, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       ImageFolder + "/" + userID,
		PublicID:     uuid.NewString(),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	return result.SecureURL, nil
}

// LocalImages writes images under a directory served at URLPrefix.
type LocalImages struct {
	dir       string
	urlPrefix string
}

// NewLocalImages creates dir if needed. urlPrefix is usually "/uploads/".
func NewLocalImages(dir, urlPrefix string) (*LocalImages, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalImages{dir: dir, urlPrefix: urlPrefix}, nil
}

// Dir is the directory images are written to.
func (s *LocalImages) Dir() string { return s.dir }

func (s *LocalImages) SaveImage(ctx context.Context, userID, filename, contentType string, body io.Reader) (string, error) {
	name := uuid.NewString() + imageExt(filename, contentType)

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return s.urlPrefix + name, nil
}

func imageExt(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic":
		return ext
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}
