package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sync"

	"github.com/superfix/superfix-backend/internal/dto"
)

// ErrUploadInProgress - для этого поля уже идёт загрузка.
var ErrUploadInProgress = errors.New("загрузка для этого поля уже выполняется")

// Uploader загружает медиа героя. Загрузки одного поля идут строго по одной,
// разные поля друг другу не мешают.
type Uploader struct {
	client *Client

	mu   sync.Mutex
	busy map[string]bool
}

func NewUploader(c *Client) *Uploader {
	return &Uploader{client: c, busy: make(map[string]bool)}
}

// Uploading - идёт ли загрузка поля.
func (u *Uploader) Uploading(field string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.busy[field]
}

// Upload отправляет файл и возвращает secure_url.
func (u *Uploader) Upload(ctx context.Context, field, filename string, r io.Reader) (string, error) {
	u.mu.Lock()
	if u.busy[field] {
		u.mu.Unlock()
		return "", ErrUploadInProgress
	}
	u.busy[field] = true
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		delete(u.busy, field)
		u.mu.Unlock()
	}()

	return u.client.uploadMedia(ctx, field, filename, r)
}

func (c *Client) uploadMedia(ctx context.Context, field, filename string, r io.Reader) (string, error) {
	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/media/upload?field="+url.QueryEscape(field), pr)
	if err != nil {
		return "", fmt.Errorf("client: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res dto.UploadResponse
	if err := c.send(req, &res); err != nil {
		return "", err
	}
	return res.SecureURL, nil
}
