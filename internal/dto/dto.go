package dto

import (
	"time"

	"github.com/workforce-planning-api/internal/simulation"
)

// CurvePointInput - точка CAT-кривой повышения
type CurvePointInput struct {
	TenureBucket int     `json:"tenure_bucket" validate:"min=0"`
	Probability  float64 `json:"probability" validate:"min=0,max=1"`
}

// LevelConfigInput - конфигурация уровня роли офиса
type LevelConfigInput struct {
	Role           string            `json:"role" validate:"required,min=1,max=100"`
	Level          string            `json:"level" validate:"required,min=1,max=100"`
	RoleKind       string            `json:"role_kind" validate:"required,oneof=billable commission fee cost_center"`
	StartingFTE    int               `json:"starting_fte" validate:"min=0"`
	Price          float64           `json:"price" validate:"min=0"`
	Salary         float64           `json:"salary" validate:"min=0"`
	UTR            float64           `json:"utr" validate:"min=0,max=1"`
	FeePerHead     float64           `json:"fee_per_head" validate:"min=0"`
	CommissionRate float64           `json:"commission_rate" validate:"min=0,max=1"`
	NextLevel      string            `json:"next_level" validate:"omitempty,max=100"`
	EligibleMonths []int             `json:"eligible_months" validate:"omitempty,dive,min=1,max=12"`
	Curve          []CurvePointInput `json:"curve" validate:"omitempty,dive"`
}

// CreateOfficeRequest - запрос на создание офиса
type CreateOfficeRequest struct {
	Code    string             `json:"code" validate:"required,min=1,max=50"`
	Name    string             `json:"name" validate:"required,min=1,max=200"`
	Journey string             `json:"journey" validate:"omitempty,oneof=emerging established mature"`
	Levels  []LevelConfigInput `json:"levels" validate:"omitempty,dive"`
}

// UpdateOfficeRequest - запрос на обновление офиса
type UpdateOfficeRequest struct {
	Name    *string             `json:"name" validate:"omitempty,min=1,max=200"`
	Journey *string             `json:"journey" validate:"omitempty,oneof=emerging established mature"`
	Levels  *[]LevelConfigInput `json:"levels" validate:"omitempty,dive"`
}

// CurvePointResponse - точка кривой в ответе
type CurvePointResponse struct {
	TenureBucket int     `json:"tenure_bucket"`
	Probability  float64 `json:"probability"`
}

// LevelConfigResponse - конфигурация уровня в ответе
type LevelConfigResponse struct {
	Role           string               `json:"role"`
	Level          string               `json:"level"`
	RoleKind       string               `json:"role_kind"`
	StartingFTE    int                  `json:"starting_fte"`
	Price          float64              `json:"price"`
	Salary         float64              `json:"salary"`
	UTR            float64              `json:"utr"`
	FeePerHead     float64              `json:"fee_per_head"`
	CommissionRate float64              `json:"commission_rate"`
	NextLevel      string               `json:"next_level,omitempty"`
	EligibleMonths []int                `json:"eligible_months,omitempty"`
	Curve          []CurvePointResponse `json:"curve,omitempty"`
}

// OfficeResponse - ответ с данными офиса
type OfficeResponse struct {
	ID        int64                 `json:"id"`
	Code      string                `json:"code"`
	Name      string                `json:"name"`
	Journey   string                `json:"journey"`
	CreatedAt time.Time             `json:"created_at"`
	Levels    []LevelConfigResponse `json:"levels,omitempty"`
}

// TimeRangeInput - закрытый диапазон месяцев сценария
type TimeRangeInput struct {
	StartYear  int `json:"start_year" validate:"required,min=1900,max=2200"`
	StartMonth int `json:"start_month" validate:"required,min=1,max=12"`
	EndYear    int `json:"end_year" validate:"required,min=1900,max=2200"`
	EndMonth   int `json:"end_month" validate:"required,min=1,max=12"`
}

// BaselineEntryInput - абсолютные наймы и оттоки, ключ месяца YYYYMM
type BaselineEntryInput struct {
	Recruitment map[string]int `json:"recruitment" validate:"omitempty,dive,min=0"`
	Churn       map[string]int `json:"churn" validate:"omitempty,dive,min=0"`
}

// BaselineInputDTO - базовый слой сценария: глобальный и офисные
// переопределения (роль -> уровень -> записи)
type BaselineInputDTO struct {
	Global  map[string]map[string]BaselineEntryInput            `json:"global" validate:"omitempty,dive,dive"`
	Offices map[string]map[string]map[string]BaselineEntryInput `json:"offices" validate:"omitempty,dive,dive,dive"`
}

// LeverSetInput - мультипликативные рычаги, ключ - уровень
type LeverSetInput struct {
	Recruitment map[string]float64 `json:"recruitment" validate:"omitempty,dive,min=0"`
	Churn       map[string]float64 `json:"churn" validate:"omitempty,dive,min=0"`
	Price       map[string]float64 `json:"price" validate:"omitempty,dive,min=0"`
	Salary      map[string]float64 `json:"salary" validate:"omitempty,dive,min=0"`
	UTR         map[string]float64 `json:"utr" validate:"omitempty,dive,min=0"`
	Progression map[string]float64 `json:"progression" validate:"omitempty,dive,min=0"`
}

// LeversInput - глобальный и офисный слои рычагов
type LeversInput struct {
	Global  LeverSetInput            `json:"global"`
	Offices map[string]LeverSetInput `json:"offices" validate:"omitempty,dive"`
}

// EconomicParamsInput - экономические допущения сценария
type EconomicParamsInput struct {
	WorkingHoursPerMonth float64            `json:"working_hours_per_month" validate:"required,gt=0"`
	EmploymentCostRate   float64            `json:"employment_cost_rate" validate:"min=0"`
	UnplannedAbsence     float64            `json:"unplanned_absence" validate:"min=0,max=1"`
	OtherExpense         float64            `json:"other_expense" validate:"min=0"`
	RevenueTargets       map[string]float64 `json:"revenue_targets" validate:"omitempty,dive,min=0"`
}

// ScenarioDefinitionInput - полное определение сценария на границе API
type ScenarioDefinitionInput struct {
	TimeRange   TimeRangeInput      `json:"time_range" validate:"required"`
	OfficeScope []string            `json:"office_scope" validate:"omitempty,dive,min=1"`
	Baseline    BaselineInputDTO    `json:"baseline_input"`
	Levers      LeversInput         `json:"levers"`
	Economics   EconomicParamsInput `json:"economic_params" validate:"required"`
}

// CreateScenarioRequest - запрос на сохранение сценария
type CreateScenarioRequest struct {
	Name       string                  `json:"name" validate:"required,min=1,max=200"`
	Definition ScenarioDefinitionInput `json:"definition" validate:"required"`
}

// ScenarioResponse - ответ с данными сценария
type ScenarioResponse struct {
	ID         int64                   `json:"id"`
	Name       string                  `json:"name"`
	Definition ScenarioDefinitionInput `json:"definition"`
	CreatedAt  time.Time               `json:"created_at"`
}

// RunScenarioRequest - запрос на запуск сохранённого сценария
type RunScenarioRequest struct {
	Seed *int64 `json:"seed"`
}

// SimulateRequest - запуск симуляции с определением сценария в теле
type SimulateRequest struct {
	Definition ScenarioDefinitionInput `json:"definition" validate:"required"`
	Seed       *int64                  `json:"seed"`
}

// RunResponse - ответ с результатом запуска
type RunResponse struct {
	ID         string                `json:"id"`
	ScenarioID *int64                `json:"scenario_id,omitempty"`
	Seed       int64                 `json:"seed"`
	CreatedAt  time.Time             `json:"created_at"`
	Result     *simulation.RunResult `json:"result"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
