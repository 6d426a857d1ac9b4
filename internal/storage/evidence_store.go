package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// EvidenceStore сохраняет фото "до" и "после" через любой Uploader.
type EvidenceStore struct {
	uploader Uploader
	maxBytes int64
}

func NewEvidenceStore(uploader Uploader, maxBytes int64) *EvidenceStore {
	return &EvidenceStore{uploader: uploader, maxBytes: maxBytes}
}

// SaveEvidence декодирует data URL и загружает снимок в папку заявки.
func (s *EvidenceStore) SaveEvidence(ctx context.Context, missionID uuid.UUID, slot valueobject.EvidenceSlot, dataURL string) (string, error) {
	img, err := DecodeDataURL(dataURL, s.maxBytes)
	if err != nil {
		return "", err
	}

	folder := "missions/" + missionID.String()
	name := string(slot) + "." + img.Type.Extension
	url, err := s.uploader.Upload(ctx, folder, name, img.Reader())
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось сохранить фото")
	}

	logger.WithComponent("storage").WithFields(logrus.Fields{
		"mission_id": missionID,
		"slot":       slot,
		"bytes":      len(img.Data),
	}).Info("фото-доказательство сохранено")
	return url, nil
}
