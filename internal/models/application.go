package models

import (
	"time"

	"github.com/google/uuid"
)

// Application - анкета кандидата в герои. Удаляется после решения администратора.
type Application struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
	Category  string    `db:"category" json:"category"`
	Message   *string   `db:"message" json:"message,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
