package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workforce-planning-api/internal/simulation"
)

func TestRunFTESequence(t *testing.T) {
	// Один офис, один уровень, стартовый FTE 10, найм 3 в месяц,
	// отток 2 в месяц, без повышений, три месяца: [11, 12, 13]
	cfg := simulation.OfficeConfig{
		ID: "berlin",
		Levels: []simulation.LevelConfig{
			{Role: "consulting", Level: "junior", Kind: simulation.RoleBillable, StartingFTE: 10, Price: 100, Salary: 5000, UTR: 0.8},
		},
	}

	recruitment := make(map[simulation.MonthKey]int)
	churn := make(map[simulation.MonthKey]int)
	for m := 1; m <= 3; m++ {
		recruitment[simulation.NewMonthKey(2026, m)] = 3
		churn[simulation.NewMonthKey(2026, m)] = 2
	}

	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 3},
		Baseline: simulation.BaselineInput{
			Global: map[string]map[string]simulation.BaselineEntry{
				"consulting": {"junior": {Recruitment: recruitment, Churn: churn}},
			},
		},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	result, err := simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 1})
	require.NoError(t, err)
	require.Len(t, result.Months, 3)

	var fte []int
	for _, mr := range result.Months {
		require.Len(t, mr.Levels, 1)
		fte = append(fte, mr.Levels[0].FTE)
	}
	require.Equal(t, []int{11, 12, 13}, fte)
}

func TestRunDeterministicForFixedSeed(t *testing.T) {
	cfg := twoLevelOffice("berlin")
	def := multiMonthScenario(2026, 1, 2027, 12)

	first, err := simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 7})
	require.NoError(t, err)
	second, err := simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 7})
	require.NoError(t, err)

	require.Equal(t, first.Months, second.Months)
	require.Equal(t, first.KPI, second.KPI)
}

func TestRunConservation(t *testing.T) {
	cfg := twoLevelOffice("berlin")
	def := multiMonthScenario(2026, 1, 2028, 12)

	result, err := simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 99})
	require.NoError(t, err)

	// Для каждого (роль, уровень, месяц):
	// конец == начало + наймы - отток - повышения из + повышения в
	for _, mr := range result.Months {
		for _, row := range mr.Levels {
			expected := row.StartFTE + row.Recruited - row.Churned - row.PromotedOut + row.PromotedIn
			require.Equal(t, expected, row.FTE,
				"conservation broken at %d-%02d %s/%s", mr.Year, mr.Month, row.Role, row.Level)
		}
	}
}

func TestRunEligibilityGating(t *testing.T) {
	cfg := twoLevelOffice("berlin")
	def := multiMonthScenario(2026, 1, 2028, 12)

	result, err := simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 5})
	require.NoError(t, err)

	eligible := map[int]bool{1: true, 4: true, 7: true, 10: true}
	sawPromotion := false
	for _, mr := range result.Months {
		for _, ev := range mr.Events {
			if ev.Kind == simulation.EventPromoted {
				sawPromotion = true
				require.True(t, eligible[ev.Month],
					"promotion in month %d outside eligible months", ev.Month)
			}
		}
	}
	require.True(t, sawPromotion, "expected at least one promotion over the horizon")
}

func TestRunOfficeOrderIndependence(t *testing.T) {
	berlin := twoLevelOffice("berlin")
	munich := twoLevelOffice("munich")
	def := multiMonthScenario(2026, 1, 2026, 12)

	first, err := simulation.Run(def, []simulation.OfficeConfig{berlin, munich}, simulation.RunOptions{Seed: 3})
	require.NoError(t, err)
	second, err := simulation.Run(def, []simulation.OfficeConfig{munich, berlin}, simulation.RunOptions{Seed: 3})
	require.NoError(t, err)

	require.Equal(t, first.Months, second.Months)
}

func TestRunRejectsInvalidScenario(t *testing.T) {
	cfg := twoLevelOffice("berlin")
	def := multiMonthScenario(2026, 1, 2026, 12)
	def.TimeRange.StartMonth = 13

	_, err := simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 1})
	require.ErrorIs(t, err, simulation.ErrValidation)

	def = multiMonthScenario(2026, 1, 2026, 12)
	def.Economics.UnplannedAbsence = 1.5
	_, err = simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 1})
	require.ErrorIs(t, err, simulation.ErrValidation)

	def = multiMonthScenario(2026, 1, 2026, 12)
	def.Levers.Global.Churn = map[string]float64{"junior": -0.5}
	_, err = simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 1})
	require.ErrorIs(t, err, simulation.ErrValidation)
}

// multiMonthScenario собирает сценарий с наймом, оттоком и рычагом
// повышений на каждом месяце диапазона
func multiMonthScenario(startYear, startMonth, endYear, endMonth int) simulation.ScenarioDefinition {
	tr := simulation.TimeRange{StartYear: startYear, StartMonth: startMonth, EndYear: endYear, EndMonth: endMonth}
	recruitment := make(map[simulation.MonthKey]int)
	churn := make(map[simulation.MonthKey]int)
	for _, key := range tr.Months() {
		recruitment[key] = 2
		churn[key] = 1
	}
	return simulation.ScenarioDefinition{
		TimeRange: tr,
		Baseline: simulation.BaselineInput{
			Global: map[string]map[string]simulation.BaselineEntry{
				"consulting": {"junior": {Recruitment: recruitment, Churn: churn}},
			},
		},
		Levers: simulation.Levers{
			Global: simulation.LeverSet{Progression: map[string]float64{"junior": 1.2}},
		},
		Economics: simulation.EconomicParams{
			WorkingHoursPerMonth: 160,
			EmploymentCostRate:   0.2,
			UnplannedAbsence:     0.05,
		},
	}
}
