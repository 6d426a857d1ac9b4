package portal

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/interface/http/dto"
	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/models"
)

var (
	// ErrTransitionInFlight - по этой заявке уже идёт запрос.
	ErrTransitionInFlight = errors.New("статус заявки уже обновляется")
	// ErrCaptureCancelled - герой закрыл камеру, переход не выполнен.
	ErrCaptureCancelled = errors.New("съёмка отменена")
	ErrMissionNotLoaded = errors.New("заявка не найдена в списке, обновите портал")
	ErrClosed           = errors.New("портал закрыт")
)

// MissionAPI - часть клиента, нужная порталу героя.
type MissionAPI interface {
	MyMissions(ctx context.Context, view string) ([]dto.MissionResponse, error)
	UpdateMissionStatus(ctx context.Context, id, status, photo string) (*dto.MissionResponse, error)
	GetHero(ctx context.Context, id string) (*models.Hero, error)
}

// EvidenceProvider снимает фото. ok=false - герой отменил съёмку.
type EvidenceProvider interface {
	Capture(ctx context.Context) (dataURL string, ok bool, err error)
}

// EvidenceFunc позволяет передать функцию как EvidenceProvider.
type EvidenceFunc func(ctx context.Context) (string, bool, error)

func (f EvidenceFunc) Capture(ctx context.Context) (string, bool, error) {
	return f(ctx)
}

// Controller - переходы статусов из портала героя.
type Controller struct {
	api      MissionAPI
	evidence EvidenceProvider
	heroID   string

	mu       sync.Mutex
	inFlight map[string]bool
	board    Board
	closed   bool
}

func NewController(api MissionAPI, evidence EvidenceProvider, heroID string) *Controller {
	return &Controller{api: api, evidence: evidence, heroID: heroID, inFlight: make(map[string]bool)}
}

func (c *Controller) Board() Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board
}

// Close - портал закрыт; поздние ответы сервера отбрасываются.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Refresh перезагружает заявки и показатели героя.
func (c *Controller) Refresh(ctx context.Context) error {
	missions, err := c.api.MyMissions(ctx, "")
	if err != nil {
		return err
	}
	var stats Stats
	if c.heroID != "" {
		hero, err := c.api.GetHero(ctx, c.heroID)
		if err != nil {
			return err
		}
		stats = Stats{TrustFactor: hero.TrustFactor, MissionsCompleted: hero.MissionsCompleted}
	}

	active, history := Partition(missions)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.board = Board{Active: active, History: history, Stats: stats}
	return nil
}

// PerformByID ищет заявку на доске и выполняет действие.
func (c *Controller) PerformByID(ctx context.Context, id string, action valueobject.MissionAction) error {
	m, ok := c.Board().Find(id)
	if !ok {
		return ErrMissionNotLoaded
	}
	return c.Perform(ctx, m, action)
}

// Perform выполняет действие над заявкой. Недопустимая пара (статус, действие)
// отклоняется без обращения к серверу; begin и finish сначала снимают фото.
func (c *Controller) Perform(ctx context.Context, m dto.MissionResponse, action valueobject.MissionAction) error {
	status, err := valueobject.NewMissionStatus(m.Status)
	if err != nil {
		return err
	}
	t, err := valueobject.Lookup(status, action)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.inFlight[m.ID] {
		c.mu.Unlock()
		return ErrTransitionInFlight
	}
	c.inFlight[m.ID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, m.ID)
		c.mu.Unlock()
	}()

	photo := ""
	if t.RequiresEvidence() {
		var ok bool
		photo, ok, err = c.evidence.Capture(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCaptureCancelled
		}
	}

	if _, err := c.api.UpdateMissionStatus(ctx, m.ID, string(t.To), photo); err != nil {
		return err
	}

	logger.WithComponent("portal").WithFields(logrus.Fields{
		"mission_id": m.ID,
		"from":       t.From,
		"to":         t.To,
	}).Info("статус заявки обновлён")

	if err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrClosed) {
		return err
	}
	return nil
}
