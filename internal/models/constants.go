package models

// Роли, которые попадают в JWT.
const (
	RoleAdmin = "ADMIN"
	RoleHero  = "HERO"
)

// DefaultCategories - стартовый набор категорий услуг.
var DefaultCategories = []string{
	"Electrician",
	"Instalator",
	"Mecanic",
	"Curățenie",
	"Zugrav",
	"Tâmplar",
	"Lăcătuș",
	"Altele",
}

// Параметры героя, созданного из анкеты.
const (
	DefaultHourlyRate  = 100
	DefaultTrustFactor = 50
)
