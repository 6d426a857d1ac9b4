package models

import (
	"time"

	"github.com/google/uuid"
)

// Review - отзыв клиента о герое.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	HeroID     uuid.UUID `db:"hero_id" json:"heroId"`
	ClientName string    `db:"client_name" json:"clientName"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    string    `db:"comment" json:"comment"`
	CreatedAt  time.Time `db:"created_at" json:"date"`
}
