package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workforce-planning-api/internal/simulation"
)

func singleLevelOffice(id string, startingFTE int) simulation.OfficeConfig {
	return simulation.OfficeConfig{
		ID:   id,
		Name: id,
		Levels: []simulation.LevelConfig{
			{
				Role:        "consulting",
				Level:       "junior",
				Kind:        simulation.RoleBillable,
				StartingFTE: startingFTE,
				Price:       100,
				Salary:      5000,
				UTR:         0.8,
			},
		},
	}
}

func TestResolveOverrideWinsOverGlobal(t *testing.T) {
	key := simulation.NewMonthKey(2026, 1)
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Baseline: simulation.BaselineInput{
			Global: map[string]map[string]simulation.BaselineEntry{
				"consulting": {"junior": {Recruitment: map[simulation.MonthKey]int{key: 5}}},
			},
			Offices: map[string]map[string]map[string]simulation.BaselineEntry{
				"berlin": {
					"consulting": {"junior": {Recruitment: map[simulation.MonthKey]int{key: 8}}},
				},
			},
		},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	resolved := simulation.Resolve(def, []simulation.OfficeConfig{singleLevelOffice("berlin", 10)})

	ref := simulation.LevelRef{Role: "consulting", Level: "junior"}
	params := resolved.Offices["berlin"].Levels[ref].Months[key]
	require.Equal(t, 8, params.Recruitment, "office override must win over global baseline")
}

func TestResolveRecruitmentLeverOnTopOfOverride(t *testing.T) {
	key := simulation.NewMonthKey(2026, 1)
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Baseline: simulation.BaselineInput{
			Global: map[string]map[string]simulation.BaselineEntry{
				"consulting": {"junior": {Recruitment: map[simulation.MonthKey]int{key: 5}}},
			},
			Offices: map[string]map[string]map[string]simulation.BaselineEntry{
				"berlin": {
					"consulting": {"junior": {Recruitment: map[simulation.MonthKey]int{key: 8}}},
				},
			},
		},
		Levers: simulation.Levers{
			Global: simulation.LeverSet{Recruitment: map[string]float64{"junior": 1.5}},
		},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	resolved := simulation.Resolve(def, []simulation.OfficeConfig{singleLevelOffice("berlin", 10)})

	ref := simulation.LevelRef{Role: "consulting", Level: "junior"}
	params := resolved.Offices["berlin"].Levels[ref].Months[key]
	require.Equal(t, 12, params.Recruitment, "lever applies multiplicatively on resolved count")
}

func TestResolveOfficeLeverMultipliesGlobal(t *testing.T) {
	key := simulation.NewMonthKey(2026, 1)
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Levers: simulation.Levers{
			Global: simulation.LeverSet{Price: map[string]float64{"junior": 1.1}},
			Offices: map[string]simulation.LeverSet{
				"berlin": {Price: map[string]float64{"junior": 2}},
			},
		},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	resolved := simulation.Resolve(def, []simulation.OfficeConfig{singleLevelOffice("berlin", 10)})

	ref := simulation.LevelRef{Role: "consulting", Level: "junior"}
	params := resolved.Offices["berlin"].Levels[ref].Months[key]
	require.InDelta(t, 100*1.1*2, params.Price, 1e-9)
}

func TestResolveOfficeScopeFilter(t *testing.T) {
	def := simulation.ScenarioDefinition{
		TimeRange:   simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		OfficeScope: []string{"berlin"},
		Economics:   simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	configs := []simulation.OfficeConfig{
		singleLevelOffice("berlin", 10),
		singleLevelOffice("munich", 5),
	}
	resolved := simulation.Resolve(def, configs)

	require.Contains(t, resolved.Offices, "berlin")
	// Офис вне scope отсутствует, а не обнулён
	require.NotContains(t, resolved.Offices, "munich")
	require.Equal(t, []string{"berlin"}, resolved.OfficeOrder())
}

func TestResolveUnknownRefsSilentlyIgnored(t *testing.T) {
	key := simulation.NewMonthKey(2026, 1)
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Baseline: simulation.BaselineInput{
			Global: map[string]map[string]simulation.BaselineEntry{
				"consulting": {"principal": {Recruitment: map[simulation.MonthKey]int{key: 4}}},
				"operations": {"junior": {Recruitment: map[simulation.MonthKey]int{key: 2}}},
			},
		},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	resolved := simulation.Resolve(def, []simulation.OfficeConfig{singleLevelOffice("berlin", 10)})

	ref := simulation.LevelRef{Role: "consulting", Level: "junior"}
	params := resolved.Offices["berlin"].Levels[ref].Months[key]
	require.Equal(t, 0, params.Recruitment)
	require.Len(t, resolved.Offices["berlin"].Levels, 1)
}

func TestResolveIsPure(t *testing.T) {
	key := simulation.NewMonthKey(2026, 1)
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 3},
		Baseline: simulation.BaselineInput{
			Global: map[string]map[string]simulation.BaselineEntry{
				"consulting": {"junior": {
					Recruitment: map[simulation.MonthKey]int{key: 3},
					Churn:       map[simulation.MonthKey]int{key: 1},
				}},
			},
		},
		Levers: simulation.Levers{
			Global: simulation.LeverSet{Salary: map[string]float64{"junior": 1.05}},
		},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}
	configs := []simulation.OfficeConfig{singleLevelOffice("berlin", 10)}

	first := simulation.Resolve(def, configs)
	second := simulation.Resolve(def, configs)

	ref := simulation.LevelRef{Role: "consulting", Level: "junior"}
	require.Equal(t, first.Offices["berlin"].Levels[ref].Months, second.Offices["berlin"].Levels[ref].Months)
	require.Equal(t, first.OfficeOrder(), second.OfficeOrder())
}
