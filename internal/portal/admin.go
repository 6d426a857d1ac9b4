package portal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/dossier"
	"github.com/superfix/superfix-backend/internal/interface/http/dto"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

type AdminAPI interface {
	ListRequests(ctx context.Context) ([]dto.MissionResponse, error)
	AdminUpdateStatus(ctx context.Context, id, status string) (*dto.MissionResponse, error)
	Dossier(ctx context.Context, id string) ([]byte, error)
}

// FileSaver сохраняет документ и возвращает, куда.
type FileSaver interface {
	Save(name string, data []byte) (string, error)
}

// DirSaver пишет файлы в каталог.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("portal: не удалось создать каталог: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("portal: не удалось сохранить файл: %w", err)
	}
	return path, nil
}

// Admin - операции админки над заявками.
type Admin struct {
	api   AdminAPI
	saver FileSaver
}

func NewAdmin(api AdminAPI, saver FileSaver) *Admin {
	return &Admin{api: api, saver: saver}
}

// Requests - все заявки, разбитые так же, как у героя.
func (a *Admin) Requests(ctx context.Context) (active, history []dto.MissionResponse, err error) {
	all, err := a.api.ListRequests(ctx)
	if err != nil {
		return nil, nil, err
	}
	active, history = Partition(all)
	return active, history, nil
}

// UpdateStatus - администратор не прикладывает фото, поэтому begin и finish
// ему недоступны и отклоняются без запроса.
func (a *Admin) UpdateStatus(ctx context.Context, m dto.MissionResponse, action valueobject.MissionAction) (*dto.MissionResponse, error) {
	status, err := valueobject.NewMissionStatus(m.Status)
	if err != nil {
		return nil, err
	}
	t, err := valueobject.Lookup(status, action)
	if err != nil {
		return nil, err
	}
	if t.RequiresEvidence() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "этот переход выполняет только герой с фотографией")
	}
	return a.api.AdminUpdateStatus(ctx, m.ID, string(t.To))
}

// SaveDossier скачивает досье и сохраняет его через FileSaver.
func (a *Admin) SaveDossier(ctx context.Context, id string) (string, error) {
	html, err := a.api.Dossier(ctx, id)
	if err != nil {
		return "", err
	}
	return a.saver.Save(DossierFileName(id), html)
}

func DossierFileName(id string) string {
	return "dossier-" + dossier.ShortID(id) + ".html"
}
