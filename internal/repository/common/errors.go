package common

import (
	"errors"

	"github.com/lib/pq"
)

// IsUniqueViolation - нарушение уникального индекса PostgreSQL (23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
