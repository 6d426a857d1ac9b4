package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore - файловое хранилище для разработки. Файлы раздаются
// статикой по publicURL.
type LocalStore struct {
	rootPath       string
	publicURL      string
	maxUploadBytes int64
}

// NewLocalStore создаёт каталог хранилища, если его нет.
func NewLocalStore(rootPath, publicURL string, maxUploadMB int64) (*LocalStore, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &LocalStore{
		rootPath:       rootPath,
		publicURL:      strings.TrimRight(publicURL, "/"),
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Upload пишет файл через временный файл и rename, чтобы читатель
// никогда не увидел недописанный снимок.
func (s *LocalStore) Upload(ctx context.Context, folder, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.rootPath, filepath.FromSlash(sanitizeFolder(folder)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: не удалось создать каталог: %w", err)
	}

	fileName := sanitizeFilename(name)
	targetPath := filepath.Join(dir, fileName)

	f, err := os.CreateTemp(dir, fileName+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	tempPath := f.Name()
	defer f.Close()

	limited := io.LimitedReader{R: r, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limited)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: ошибка записи файла: %w", err)
	}
	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: размер файла превышает лимит %d байт", s.maxUploadBytes)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	rel, err := filepath.Rel(s.rootPath, targetPath)
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	return s.publicURL + "/" + filepath.ToSlash(rel), nil
}

// Delete удаляет файл по публичному адресу, который вернул Upload.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel := strings.TrimPrefix(strings.TrimPrefix(url, s.publicURL), "/")
	if rel == "" || strings.Contains(rel, "..") {
		return fmt.Errorf("storage: некорректный путь %q", url)
	}
	target := filepath.Join(s.rootPath, filepath.FromSlash(rel))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// Root - каталог, который роутер раздаёт статикой.
func (s *LocalStore) Root() string {
	return s.rootPath
}

// sanitizeFilename удаляет потенциально опасные символы.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" || name == "." {
		name = "file"
	}
	return name
}

func sanitizeFolder(folder string) string {
	parts := strings.Split(strings.ReplaceAll(folder, "\\", "/"), "/")
	clean := parts[:0]
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		clean = append(clean, p)
	}
	return strings.Join(clean, "/")
}
