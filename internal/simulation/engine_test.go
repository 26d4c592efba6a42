package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workforce-planning-api/internal/simulation"
)

// stubSource выдаёт заранее заданную последовательность значений
type stubSource struct {
	values []float64
	i      int
}

func (s *stubSource) Float64() float64 {
	if s.i >= len(s.values) {
		return 0.999999
	}
	v := s.values[s.i]
	s.i++
	return v
}

func twoLevelOffice(id string) simulation.OfficeConfig {
	return simulation.OfficeConfig{
		ID:   id,
		Name: id,
		Levels: []simulation.LevelConfig{
			{
				Role:           "consulting",
				Level:          "junior",
				Kind:           simulation.RoleBillable,
				StartingFTE:    6,
				Price:          90,
				Salary:         4000,
				UTR:            0.75,
				NextLevel:      "senior",
				EligibleMonths: []int{1, 4, 7, 10},
				Curve:          simulation.Curve{0: 0.1, 6: 0.3, 12: 0.5},
			},
			{
				Role:        "consulting",
				Level:       "senior",
				Kind:        simulation.RoleBillable,
				StartingFTE: 3,
				Price:       150,
				Salary:      7000,
				UTR:         0.7,
				// Терминальный уровень: следующего уровня нет
				Curve: simulation.Curve{0: 0.2},
			},
		},
	}
}

func monthEntry(key simulation.MonthKey, recruitment, churn int) simulation.BaselineEntry {
	entry := simulation.BaselineEntry{}
	if recruitment > 0 {
		entry.Recruitment = map[simulation.MonthKey]int{key: recruitment}
	}
	if churn > 0 {
		entry.Churn = map[simulation.MonthKey]int{key: churn}
	}
	return entry
}

func TestAdvanceMonthPhaseOrderAndEvents(t *testing.T) {
	cfg := twoLevelOffice("berlin")
	key := simulation.NewMonthKey(2026, 1)
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Baseline: simulation.BaselineInput{
			Global: map[string]map[string]simulation.BaselineEntry{
				"consulting": {"junior": monthEntry(key, 2, 1)},
			},
		},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	resolved := simulation.Resolve(def, []simulation.OfficeConfig{cfg})
	state := simulation.NewOfficeState(cfg, key)

	// Первый розыгрыш успешен, остальные нет
	rng := &stubSource{values: []float64{0.0}}
	events, err := simulation.AdvanceMonth(state, 2026, 1, resolved.Offices["berlin"], rng)
	require.NoError(t, err)

	var kinds []simulation.EventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	require.Equal(t, []simulation.EventKind{
		simulation.EventHired,
		simulation.EventHired,
		simulation.EventChurned,
		simulation.EventPromoted,
	}, kinds, "in-month order must be recruitment, churn, progression")

	promoted := events[len(events)-1]
	require.Equal(t, "junior", promoted.FromLevel)
	require.Equal(t, "senior", promoted.ToLevel)

	junior := simulation.LevelRef{Role: "consulting", Level: "junior"}
	senior := simulation.LevelRef{Role: "consulting", Level: "senior"}
	require.Equal(t, 6+2-1-1, state.Headcount(junior))
	require.Equal(t, 3+1, state.Headcount(senior))
}

func TestChurnNeverSelectsNewHires(t *testing.T) {
	cfg := simulation.OfficeConfig{
		ID: "berlin",
		Levels: []simulation.LevelConfig{
			{Role: "consulting", Level: "junior", Kind: simulation.RoleBillable, StartingFTE: 2, Salary: 4000},
		},
	}
	key := simulation.NewMonthKey(2026, 1)
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Baseline: simulation.BaselineInput{
			Global: map[string]map[string]simulation.BaselineEntry{
				"consulting": {"junior": monthEntry(key, 5, 4)},
			},
		},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	resolved := simulation.Resolve(def, []simulation.OfficeConfig{cfg})
	state := simulation.NewOfficeState(cfg, key)

	events, err := simulation.AdvanceMonth(state, 2026, 1, resolved.Offices["berlin"], &stubSource{})
	require.NoError(t, err)

	churned := 0
	for _, ev := range events {
		if ev.Kind == simulation.EventChurned {
			churned++
			// Нанятые в этом месяце имели бы нулевой стаж
			require.Greater(t, ev.TenureMonths, 0)
		}
	}
	// Кандидатов только двое: запрошенные 4 оттока ограничены ими
	require.Equal(t, 2, churned)

	junior := simulation.LevelRef{Role: "consulting", Level: "junior"}
	require.Equal(t, 5, state.Headcount(junior))
}

func TestChurnSelectsOldestTenureFirst(t *testing.T) {
	cfg := simulation.OfficeConfig{
		ID: "berlin",
		Levels: []simulation.LevelConfig{
			{Role: "consulting", Level: "junior", Kind: simulation.RoleBillable, StartingFTE: 3, Salary: 4000},
		},
	}
	start := simulation.NewMonthKey(2026, 1)
	second := start.Next()
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 2},
		Baseline: simulation.BaselineInput{
			Global: map[string]map[string]simulation.BaselineEntry{
				"consulting": {"junior": {
					Recruitment: map[simulation.MonthKey]int{start: 2},
					Churn:       map[simulation.MonthKey]int{second: 2},
				}},
			},
		},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	resolved := simulation.Resolve(def, []simulation.OfficeConfig{cfg})
	state := simulation.NewOfficeState(cfg, start)

	_, err := simulation.AdvanceMonth(state, 2026, 1, resolved.Offices["berlin"], &stubSource{})
	require.NoError(t, err)
	events, err := simulation.AdvanceMonth(state, 2026, 2, resolved.Offices["berlin"], &stubSource{})
	require.NoError(t, err)

	// Во втором месяце стартовые сотрудники (стаж 2) уходят раньше
	// нанятых в первом месяце (стаж 1)
	for _, ev := range events {
		if ev.Kind == simulation.EventChurned {
			require.Equal(t, 2, ev.TenureMonths)
		}
	}
}

func TestAdvanceMonthDeterministicDrawOrder(t *testing.T) {
	cfg := twoLevelOffice("berlin")
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}
	resolved := simulation.Resolve(def, []simulation.OfficeConfig{cfg})

	run := func() []simulation.Event {
		state := simulation.NewOfficeState(cfg, simulation.NewMonthKey(2026, 1))
		events, err := simulation.AdvanceMonth(state, 2026, 1, resolved.Offices["berlin"], simulation.NewSeededSource(42))
		require.NoError(t, err)
		return events
	}

	require.Equal(t, run(), run(), "same seed must produce identical events")
}

func TestAdvanceMonthConsistencyError(t *testing.T) {
	cfg := simulation.OfficeConfig{
		ID: "berlin",
		Levels: []simulation.LevelConfig{
			{
				Role:           "consulting",
				Level:          "junior",
				Kind:           simulation.RoleBillable,
				StartingFTE:    3,
				Salary:         4000,
				NextLevel:      "ghost",
				EligibleMonths: []int{1},
				Curve:          simulation.Curve{0: 0.5},
			},
		},
	}
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	resolved := simulation.Resolve(def, []simulation.OfficeConfig{cfg})
	state := simulation.NewOfficeState(cfg, simulation.NewMonthKey(2026, 1))

	_, err := simulation.AdvanceMonth(state, 2026, 1, resolved.Offices["berlin"], &stubSource{})
	require.Error(t, err)

	var cerr *simulation.ConsistencyError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "berlin", cerr.Office)
	require.Equal(t, simulation.NewMonthKey(2026, 1), cerr.Month)
}
