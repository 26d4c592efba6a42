package domain

import (
	"time"
)

// Office представляет офис фирмы
type Office struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"code" gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null"`
	Journey   string    `json:"journey" gorm:"type:varchar(50);not null;default:'established'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Levels []LevelConfig `json:"levels,omitempty" gorm:"foreignKey:OfficeID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (Office) TableName() string {
	return "offices"
}

// LevelConfig представляет конфигурацию уровня роли в офисе:
// стартовая численность, ставки и правила карьерного роста
type LevelConfig struct {
	ID             int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	OfficeID       int64   `json:"office_id" gorm:"not null;index"`
	Role           string  `json:"role" gorm:"type:varchar(100);not null"`
	Level          string  `json:"level" gorm:"type:varchar(100);not null"`
	RoleKind       string  `json:"role_kind" gorm:"type:varchar(50);not null"`
	StartingFTE    int     `json:"starting_fte" gorm:"not null;default:0"`
	Price          float64 `json:"price" gorm:"not null;default:0"`
	Salary         float64 `json:"salary" gorm:"not null;default:0"`
	UTR            float64 `json:"utr" gorm:"not null;default:0"`
	FeePerHead     float64 `json:"fee_per_head" gorm:"not null;default:0"`
	CommissionRate float64 `json:"commission_rate" gorm:"not null;default:0"`
	NextLevel      string  `json:"next_level" gorm:"type:varchar(100)"`
	// EligibleMonths хранится списком через запятую, например "1,4,7,10"
	EligibleMonths string `json:"eligible_months" gorm:"type:varchar(50)"`

	Office *Office      `json:"-" gorm:"foreignKey:OfficeID"`
	Curve  []CurvePoint `json:"curve,omitempty" gorm:"foreignKey:LevelConfigID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (LevelConfig) TableName() string {
	return "level_configs"
}

// CurvePoint представляет точку CAT-кривой повышения: бакет стажа
// в месяцах и вероятность повышения за месяц
type CurvePoint struct {
	ID            int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	LevelConfigID int64   `json:"level_config_id" gorm:"not null;index"`
	TenureBucket  int     `json:"tenure_bucket" gorm:"not null"`
	Probability   float64 `json:"probability" gorm:"not null"`

	LevelConfig *LevelConfig `json:"-" gorm:"foreignKey:LevelConfigID"`
}

// TableName задаёт имя таблицы для GORM
func (CurvePoint) TableName() string {
	return "curve_points"
}

// Scenario представляет сохранённое определение сценария.
// Определение хранится документом JSON и валидируется на границе.
type Scenario struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string    `json:"name" gorm:"type:varchar(200);not null"`
	Definition string    `json:"definition" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (Scenario) TableName() string {
	return "scenarios"
}

// ScenarioRun представляет выполненный запуск сценария
type ScenarioRun struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	ScenarioID *int64    `json:"scenario_id" gorm:"index"`
	Seed       int64     `json:"seed" gorm:"not null"`
	StartYear  int       `json:"start_year" gorm:"not null"`
	StartMonth int       `json:"start_month" gorm:"not null"`
	EndYear    int       `json:"end_year" gorm:"not null"`
	EndMonth   int       `json:"end_month" gorm:"not null"`
	Result     string    `json:"result" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	Scenario *Scenario `json:"-" gorm:"foreignKey:ScenarioID"`
}

// TableName задаёт имя таблицы для GORM
func (ScenarioRun) TableName() string {
	return "scenario_runs"
}
