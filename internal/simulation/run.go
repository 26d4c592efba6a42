package simulation

import (
	"fmt"

	"github.com/google/uuid"
)

// LevelMonth - помесячная строка серии по (роль, уровень)
type LevelMonth struct {
	Role        string  `json:"role"`
	Level       string  `json:"level"`
	StartFTE    int     `json:"start_fte"`
	FTE         int     `json:"fte"`
	Recruited   int     `json:"recruited"`
	Churned     int     `json:"churned"`
	PromotedIn  int     `json:"promoted_in"`
	PromotedOut int     `json:"promoted_out"`
	Price       float64 `json:"price"`
	Salary      float64 `json:"salary"`
	UTR         float64 `json:"utr"`
}

// MonthlyResult - снимок одного месяца одного офиса: события
// и численность по уровням. После создания не изменяется.
type MonthlyResult struct {
	Office string       `json:"office"`
	Year   int          `json:"year"`
	Month  int          `json:"month"`
	Events []Event      `json:"events"`
	Levels []LevelMonth `json:"levels"`
}

// RunOptions - параметры запуска симуляции
type RunOptions struct {
	Seed int64
}

// RunResult - результат одного запуска сценария
type RunResult struct {
	RunID  string          `json:"run_id"`
	Seed   int64           `json:"seed"`
	Range  TimeRange       `json:"time_range"`
	Months []MonthlyResult `json:"months"`
	KPI    *KPIReport      `json:"kpi"`
}

// Run прогоняет сценарий по всем офисам диапазона и собирает
// результат. Композиционный корень ядра: валидация, резолв,
// помесячное продвижение каждого офиса, агрегация KPI.
//
// Офисы независимы друг от друга и обрабатываются в отсортированном
// порядке, каждый со своим источником случайности, выведенным из
// сида запуска, поэтому порядок обработки на результат не влияет.
// Месяцы внутри офиса строго последовательны.
func Run(def ScenarioDefinition, configs []OfficeConfig, opts RunOptions) (*RunResult, error) {
	if err := Validate(def, configs); err != nil {
		return nil, err
	}

	resolved := Resolve(def, configs)

	configByID := make(map[string]OfficeConfig, len(configs))
	for _, cfg := range configs {
		configByID[cfg.ID] = cfg
	}

	result := &RunResult{
		RunID: uuid.NewString(),
		Seed:  opts.Seed,
		Range: def.TimeRange,
	}

	months := def.TimeRange.Months()

	for _, officeID := range resolved.OfficeOrder() {
		office := resolved.Offices[officeID]
		cfg, ok := configByID[officeID]
		if !ok {
			return nil, fmt.Errorf("resolved parameters reference unknown office %s", officeID)
		}

		state := NewOfficeState(cfg, def.TimeRange.Start())
		rng := NewSeededSource(OfficeSeed(opts.Seed, officeID))

		for _, key := range months {
			startCounts := state.Headcounts()

			events, err := AdvanceMonth(state, key.Year(), key.Month(), office, rng)
			if err != nil {
				return nil, fmt.Errorf("advancing office %s to %s: %w", officeID, key, err)
			}

			result.Months = append(result.Months, buildMonthlyResult(state, office, key, startCounts, events))
		}
	}

	result.KPI = Aggregate(result.Months, resolved)
	return result, nil
}

// buildMonthlyResult собирает снимок месяца из событий и численности
func buildMonthlyResult(state *OfficeState, office *ResolvedOffice, key MonthKey, startCounts map[LevelRef]int, events []Event) MonthlyResult {
	res := MonthlyResult{
		Office: state.ID,
		Year:   key.Year(),
		Month:  key.Month(),
		Events: events,
	}

	recruited := make(map[LevelRef]int)
	churned := make(map[LevelRef]int)
	promotedIn := make(map[LevelRef]int)
	promotedOut := make(map[LevelRef]int)
	for _, ev := range events {
		switch ev.Kind {
		case EventHired:
			recruited[LevelRef{Role: ev.Role, Level: ev.ToLevel}]++
		case EventChurned:
			churned[LevelRef{Role: ev.Role, Level: ev.FromLevel}]++
		case EventPromoted:
			promotedOut[LevelRef{Role: ev.Role, Level: ev.FromLevel}]++
			promotedIn[LevelRef{Role: ev.Role, Level: ev.ToLevel}]++
		}
	}

	for _, ref := range state.LevelOrder() {
		row := LevelMonth{
			Role:        ref.Role,
			Level:       ref.Level,
			StartFTE:    startCounts[ref],
			FTE:         state.Headcount(ref),
			Recruited:   recruited[ref],
			Churned:     churned[ref],
			PromotedIn:  promotedIn[ref],
			PromotedOut: promotedOut[ref],
		}
		if lvl, ok := office.Levels[ref]; ok {
			if params, ok := lvl.Months[key]; ok {
				row.Price = params.Price
				row.Salary = params.Salary
				row.UTR = params.UTR
			}
		}
		res.Levels = append(res.Levels, row)
	}

	return res
}
