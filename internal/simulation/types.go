package simulation

import (
	"fmt"
	"sort"
)

// MonthKey - ключ месяца в формате YYYYMM (например, 202601)
type MonthKey int

// NewMonthKey создаёт ключ месяца из года и номера месяца
func NewMonthKey(year, month int) MonthKey {
	return MonthKey(year*100 + month)
}

// Year возвращает год ключа
func (k MonthKey) Year() int {
	return int(k) / 100
}

// Month возвращает номер месяца (1-12)
func (k MonthKey) Month() int {
	return int(k) % 100
}

// Next возвращает ключ следующего месяца
func (k MonthKey) Next() MonthKey {
	if k.Month() == 12 {
		return NewMonthKey(k.Year()+1, 1)
	}
	return NewMonthKey(k.Year(), k.Month()+1)
}

// Prev возвращает ключ предыдущего месяца
func (k MonthKey) Prev() MonthKey {
	if k.Month() == 1 {
		return NewMonthKey(k.Year()-1, 12)
	}
	return NewMonthKey(k.Year(), k.Month()-1)
}

// MonthsBetween возвращает количество месяцев от from до to
func MonthsBetween(from, to MonthKey) int {
	return (to.Year()-from.Year())*12 + (to.Month() - from.Month())
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%06d", int(k))
}

// TimeRange - закрытый диапазон месяцев сценария
type TimeRange struct {
	StartYear  int `json:"start_year"`
	StartMonth int `json:"start_month"`
	EndYear    int `json:"end_year"`
	EndMonth   int `json:"end_month"`
}

// Start возвращает первый месяц диапазона
func (tr TimeRange) Start() MonthKey {
	return NewMonthKey(tr.StartYear, tr.StartMonth)
}

// End возвращает последний месяц диапазона
func (tr TimeRange) End() MonthKey {
	return NewMonthKey(tr.EndYear, tr.EndMonth)
}

// Months возвращает все месяцы диапазона по порядку
func (tr TimeRange) Months() []MonthKey {
	var months []MonthKey
	for k := tr.Start(); k <= tr.End(); k = k.Next() {
		months = append(months, k)
	}
	return months
}

// LevelRef - ссылка на уровень внутри роли
type LevelRef struct {
	Role  string `json:"role"`
	Level string `json:"level"`
}

func (r LevelRef) String() string {
	return r.Role + "/" + r.Level
}

// BaselineEntry - абсолютные показатели найма и оттока по месяцам.
// Значения всегда в людях, никогда в процентах.
type BaselineEntry struct {
	Recruitment map[MonthKey]int `json:"recruitment,omitempty"`
	Churn       map[MonthKey]int `json:"churn,omitempty"`
}

// BaselineInput - базовые входные данные сценария: глобальный слой
// и офисные переопределения поверх него (роль -> уровень -> месяцы)
type BaselineInput struct {
	Global  map[string]map[string]BaselineEntry            `json:"global,omitempty"`
	Offices map[string]map[string]map[string]BaselineEntry `json:"offices,omitempty"`
}

// LeverSet - мультипликативные рычаги сценария, ключ - уровень
type LeverSet struct {
	Recruitment map[string]float64 `json:"recruitment,omitempty"`
	Churn       map[string]float64 `json:"churn,omitempty"`
	Price       map[string]float64 `json:"price,omitempty"`
	Salary      map[string]float64 `json:"salary,omitempty"`
	UTR         map[string]float64 `json:"utr,omitempty"`
	Progression map[string]float64 `json:"progression,omitempty"`
}

// Levers - глобальный слой рычагов и офисный слой поверх него
type Levers struct {
	Global  LeverSet            `json:"global"`
	Offices map[string]LeverSet `json:"offices,omitempty"`
}

// EconomicParams - экономические допущения сценария
type EconomicParams struct {
	WorkingHoursPerMonth float64            `json:"working_hours_per_month"`
	EmploymentCostRate   float64            `json:"employment_cost_rate"`
	UnplannedAbsence     float64            `json:"unplanned_absence"`
	OtherExpense         float64            `json:"other_expense"`
	RevenueTargets       map[string]float64 `json:"revenue_targets,omitempty"`
}

// ScenarioDefinition - полное определение сценария, валидируется
// один раз на границе и далее не изменяется
type ScenarioDefinition struct {
	TimeRange   TimeRange      `json:"time_range"`
	OfficeScope []string       `json:"office_scope,omitempty"`
	Baseline    BaselineInput  `json:"baseline_input"`
	Levers      Levers         `json:"levers"`
	Economics   EconomicParams `json:"economic_params"`
}

// RoleKind - бизнес-правило выручки для роли
type RoleKind string

const (
	RoleBillable   RoleKind = "billable"   // выручка от оплачиваемых часов
	RoleCommission RoleKind = "commission" // процент от выручки офиса
	RoleFee        RoleKind = "fee"        // фиксированная сумма на человека
	RoleCostCenter RoleKind = "cost_center" // только затраты
)

// Curve - кривая вероятности повышения по бакетам стажа (CAT0, CAT6, ...)
type Curve map[int]float64

// LevelConfig - конфигурация уровня внутри роли офиса
type LevelConfig struct {
	Role           string
	Level          string
	Kind           RoleKind
	StartingFTE    int
	Price          float64
	Salary         float64
	UTR            float64
	FeePerHead     float64
	CommissionRate float64
	// NextLevel - уровень назначения при повышении; пустая строка
	// означает терминальный уровень
	NextLevel      string
	EligibleMonths []int
	Curve          Curve
}

// Ref возвращает ссылку на уровень конфигурации
func (c LevelConfig) Ref() LevelRef {
	return LevelRef{Role: c.Role, Level: c.Level}
}

// OfficeConfig - конфигурация офиса, читается ядром только на чтение
type OfficeConfig struct {
	ID      string
	Name    string
	Journey string
	Levels  []LevelConfig
}

// LevelParams - разрешённые параметры уровня на один месяц
type LevelParams struct {
	Recruitment     int
	Churn           int
	Price           float64
	Salary          float64
	UTR             float64
	ProgressionMult float64
}

// ResolvedLevel - конфигурация уровня плюс помесячные параметры
type ResolvedLevel struct {
	Config LevelConfig
	Months map[MonthKey]LevelParams
}

// ResolvedOffice - разрешённые параметры одного офиса
type ResolvedOffice struct {
	ID     string
	Levels map[LevelRef]*ResolvedLevel
	order  []LevelRef
}

// LevelOrder возвращает ссылки уровней в стабильном порядке
func (o *ResolvedOffice) LevelOrder() []LevelRef {
	return o.order
}

// ResolvedParams - полный результат работы резолвера
type ResolvedParams struct {
	Range     TimeRange
	Economics EconomicParams
	Offices   map[string]*ResolvedOffice
	order     []string
}

// OfficeOrder возвращает идентификаторы офисов в стабильном порядке
func (p *ResolvedParams) OfficeOrder() []string {
	return p.order
}

func sortedLevelRefs(m map[LevelRef]*ResolvedLevel) []LevelRef {
	refs := make([]LevelRef, 0, len(m))
	for ref := range m {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Role != refs[j].Role {
			return refs[i].Role < refs[j].Role
		}
		return refs[i].Level < refs[j].Level
	})
	return refs
}
