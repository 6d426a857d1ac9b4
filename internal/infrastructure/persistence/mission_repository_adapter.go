package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/superfix/superfix-backend/internal/domain/entity"
	"github.com/superfix/superfix-backend/internal/domain/repository"
	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

type MissionRepositoryAdapter struct {
	db *sqlx.DB
}

func NewMissionRepositoryAdapter(db *sqlx.DB) *MissionRepositoryAdapter {
	return &MissionRepositoryAdapter{db: db}
}

// missionRow - строка таблицы missions.
type missionRow struct {
	ID          uuid.UUID      `db:"id"`
	HeroID      uuid.UUID      `db:"hero_id"`
	ClientName  string         `db:"client_name"`
	ClientPhone string         `db:"client_phone"`
	ClientEmail sql.NullString `db:"client_email"`
	Description string         `db:"description"`
	Status      string         `db:"status"`
	PhotoBefore sql.NullString `db:"photo_before"`
	PhotoAfter  sql.NullString `db:"photo_after"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

const missionColumns = `id, hero_id, client_name, client_phone, client_email, description,
	status, photo_before, photo_after, created_at, updated_at`

func (row missionRow) toEntity() *entity.Mission {
	return &entity.Mission{
		ID:          row.ID,
		HeroID:      row.HeroID,
		ClientName:  row.ClientName,
		ClientPhone: row.ClientPhone,
		ClientEmail: nullableString(row.ClientEmail),
		Description: row.Description,
		Status:      valueobject.MissionStatus(row.Status),
		PhotoBefore: nullableString(row.PhotoBefore),
		PhotoAfter:  nullableString(row.PhotoAfter),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func (r *MissionRepositoryAdapter) Create(ctx context.Context, mission *entity.Mission) error {
	query := `
		INSERT INTO missions (id, hero_id, client_name, client_phone, client_email, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		mission.ID,
		mission.HeroID,
		mission.ClientName,
		mission.ClientPhone,
		mission.ClientEmail,
		mission.Description,
		string(mission.Status),
		mission.CreatedAt,
		mission.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать заявку")
	}
	return nil
}

// UpdateStatus использует условие по старому статусу, поэтому два
// параллельных перехода не проходят оба. Фото пишутся только если пусты.
func (r *MissionRepositoryAdapter) UpdateStatus(ctx context.Context, mission *entity.Mission, expected valueobject.MissionStatus) error {
	query := `
		UPDATE missions
		SET status = $2,
		    photo_before = COALESCE(photo_before, $3),
		    photo_after = COALESCE(photo_after, $4),
		    updated_at = $5
		WHERE id = $1 AND status = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		mission.ID,
		string(mission.Status),
		mission.PhotoBefore,
		mission.PhotoAfter,
		mission.UpdatedAt,
		string(expected),
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить заявку")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат обновления")
	}
	if rows == 0 {
		return apperror.ErrIllegalTransition
	}
	return nil
}

func (r *MissionRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
	var row missionRow
	err := r.db.GetContext(ctx, &row, `SELECT `+missionColumns+` FROM missions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrMissionNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявку")
	}
	return row.toEntity(), nil
}

func (r *MissionRepositoryAdapter) FindByHeroID(ctx context.Context, heroID uuid.UUID) ([]*entity.Mission, error) {
	return r.List(ctx, repository.MissionFilter{HeroID: &heroID})
}

func (r *MissionRepositoryAdapter) List(ctx context.Context, filter repository.MissionFilter) ([]*entity.Mission, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.HeroID != nil {
		args = append(args, *filter.HeroID)
		conditions = append(conditions, fmt.Sprintf("hero_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + missionColumns + ` FROM missions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []missionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявки")
	}

	missions := make([]*entity.Mission, 0, len(rows))
	for _, row := range rows {
		missions = append(missions, row.toEntity())
	}
	return missions, nil
}

func (r *MissionRepositoryAdapter) CountByStatus(ctx context.Context, heroID uuid.UUID) (map[valueobject.MissionStatus]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT status, COUNT(*) AS count FROM missions WHERE hero_id = $1 GROUP BY status
	`, heroID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать заявки")
	}

	counts := make(map[valueobject.MissionStatus]int, len(rows))
	for _, row := range rows {
		counts[valueobject.MissionStatus(row.Status)] = row.Count
	}
	return counts, nil
}
