package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Hero - исполнитель, доступный для заявок.
type Hero struct {
	ID                uuid.UUID      `db:"id" json:"id"`
	Alias             string         `db:"alias" json:"alias"`
	RealName          *string        `db:"real_name" json:"realName,omitempty"`
	Description       string         `db:"description" json:"description"`
	Category          string         `db:"category" json:"category"`
	HourlyRate        float64        `db:"hourly_rate" json:"hourlyRate"`
	AvatarURL         *string        `db:"avatar_url" json:"avatarUrl,omitempty"`
	VideoURL          *string        `db:"video_url" json:"videoUrl,omitempty"`
	Phone             *string        `db:"phone" json:"phone,omitempty"`
	Email             *string        `db:"email" json:"email,omitempty"`
	Location          *string        `db:"location" json:"location,omitempty"`
	Powers            *string        `db:"powers" json:"powers,omitempty"`
	ActionAreas       pq.StringArray `db:"action_areas" json:"actionAreas"`
	TrustFactor       int            `db:"trust_factor" json:"trustFactor"`
	MissionsCompleted int            `db:"missions_completed" json:"missionsCompleted"`
	Username          *string        `db:"username" json:"username,omitempty"`
	PasswordHash      *string        `db:"password_hash" json:"-"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updatedAt"`

	Reviews []Review `db:"-" json:"reviews,omitempty"`
}

// HeroStats - производные показатели, которые пересчитывает сервер.
type HeroStats struct {
	MissionsCompleted int
	TrustFactor       int
}

// HeroFilter - параметры публичного поиска.
type HeroFilter struct {
	Category string
	Query    string
	Counties []string
}
