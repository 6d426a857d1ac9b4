package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore загружает файлы в Cloudinary CDN.
type CloudinaryStore struct {
	cld          *cloudinary.Cloudinary
	uploadPreset string
	rootFolder   string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, uploadPreset string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось инициализировать Cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, uploadPreset: uploadPreset, rootFolder: "superfix"}, nil
}

// Upload отдаёт поток в Cloudinary и возвращает secure_url.
func (s *CloudinaryStore) Upload(ctx context.Context, folder, name string, r io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:       path.Join(s.rootFolder, folder),
		PublicID:     strings.TrimSuffix(name, path.Ext(name)),
		UploadPreset: s.uploadPreset,
		ResourceType: "auto",
	}
	result, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("storage: cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("storage: cloudinary upload: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("storage: cloudinary не вернул secure_url")
	}
	return result.SecureURL, nil
}
