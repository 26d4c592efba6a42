package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workforce-planning-api/internal/simulation"
)

func mixedRolesOffice(id string) simulation.OfficeConfig {
	return simulation.OfficeConfig{
		ID: id,
		Levels: []simulation.LevelConfig{
			{Role: "consulting", Level: "junior", Kind: simulation.RoleBillable, StartingFTE: 10, Price: 100, Salary: 5000, UTR: 0.8},
			{Role: "sales", Level: "partner", Kind: simulation.RoleCommission, StartingFTE: 2, Salary: 9000, CommissionRate: 0.1},
			{Role: "advisory", Level: "expert", Kind: simulation.RoleFee, StartingFTE: 4, Salary: 6000, FeePerHead: 12000},
			{Role: "operations", Level: "staff", Kind: simulation.RoleCostCenter, StartingFTE: 3, Salary: 3000},
		},
	}
}

func TestAggregateRoleBusinessRules(t *testing.T) {
	cfg := mixedRolesOffice("berlin")
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160, EmploymentCostRate: 0.2},
	}

	result, err := simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 1})
	require.NoError(t, err)
	require.Len(t, result.KPI.Months, 1)

	kpi := result.KPI.Months[0]
	byRole := make(map[string]simulation.LevelFinance)
	for _, lf := range kpi.Levels {
		byRole[lf.Role] = lf
	}

	// Оплачиваемая роль: численность x цена x часы x UTR
	billable := 10.0 * 100 * 160 * 0.8
	require.InDelta(t, billable, byRole["consulting"].Revenue, 1e-6)

	// Комиссионная роль: процент от пула выручки офиса,
	// независимо от собственной численности
	require.InDelta(t, 0.1*billable, byRole["sales"].Revenue, 1e-6)

	// Фиксированная ставка на активного человека
	require.InDelta(t, 4*12000.0, byRole["advisory"].Revenue, 1e-6)

	// Центр затрат не приносит выручки
	require.Zero(t, byRole["operations"].Revenue)
	require.InDelta(t, 3*3000*1.2, byRole["operations"].Cost, 1e-6)

	expectedRevenue := billable + 0.1*billable + 4*12000.0
	require.InDelta(t, expectedRevenue, kpi.Financial.Revenue, 1e-6)
}

func TestAggregateMarginSafety(t *testing.T) {
	cfg := simulation.OfficeConfig{
		ID: "berlin",
		Levels: []simulation.LevelConfig{
			{Role: "operations", Level: "staff", Kind: simulation.RoleCostCenter, StartingFTE: 5, Salary: 3000},
		},
	}
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	result, err := simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 1})
	require.NoError(t, err)

	fin := result.KPI.Months[0].Financial
	require.Zero(t, fin.Revenue)
	// Маржа ровно 0 при нулевой выручке, без ошибок деления
	require.Zero(t, fin.Margin)
	require.Negative(t, fin.Profit)
}

func TestAggregateZeroHeadcountPerFTE(t *testing.T) {
	cfg := simulation.OfficeConfig{
		ID: "berlin",
		Levels: []simulation.LevelConfig{
			{Role: "consulting", Level: "junior", Kind: simulation.RoleBillable, StartingFTE: 0, Price: 100, Salary: 5000, UTR: 0.8},
		},
	}
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	result, err := simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 1})
	require.NoError(t, err)

	fin := result.KPI.Months[0].Financial
	require.Zero(t, fin.RevenuePerFTE)
	require.Zero(t, fin.CostPerFTE)
}

func TestAggregateRatesAgainstStartingHeadcount(t *testing.T) {
	cfg := simulation.OfficeConfig{
		ID: "berlin",
		Levels: []simulation.LevelConfig{
			{Role: "consulting", Level: "junior", Kind: simulation.RoleBillable, StartingFTE: 10, Price: 100, Salary: 5000, UTR: 0.8},
		},
	}
	key := simulation.NewMonthKey(2026, 1)
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 1, EndYear: 2026, EndMonth: 1},
		Baseline: simulation.BaselineInput{
			Global: map[string]map[string]simulation.BaselineEntry{
				"consulting": {"junior": {
					Recruitment: map[simulation.MonthKey]int{key: 5},
					Churn:       map[simulation.MonthKey]int{key: 2},
				}},
			},
		},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	result, err := simulation.Run(def, []simulation.OfficeConfig{cfg}, simulation.RunOptions{Seed: 1})
	require.NoError(t, err)

	w := result.KPI.Months[0].Workforce
	require.Equal(t, 10, w.StartHeadcount)
	require.Equal(t, 13, w.Headcount)
	// Знаменатель - численность на начало периода, не на конец
	require.InDelta(t, 0.5, w.HireRate, 1e-9)
	require.InDelta(t, 0.2, w.ChurnRate, 1e-9)
}

func TestAggregateYearAndTotalRollups(t *testing.T) {
	berlin := mixedRolesOffice("berlin")
	munich := mixedRolesOffice("munich")
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{StartYear: 2026, StartMonth: 11, EndYear: 2027, EndMonth: 2},
		Economics: simulation.EconomicParams{WorkingHoursPerMonth: 160},
	}

	result, err := simulation.Run(def, []simulation.OfficeConfig{berlin, munich}, simulation.RunOptions{Seed: 1})
	require.NoError(t, err)

	// Два офиса x два календарных года
	require.Len(t, result.KPI.Years, 4)
	require.Len(t, result.KPI.Totals, 2)

	var berlin2026 *simulation.YearKPI
	for i := range result.KPI.Years {
		if result.KPI.Years[i].Office == "berlin" && result.KPI.Years[i].Year == 2026 {
			berlin2026 = &result.KPI.Years[i]
		}
	}
	require.NotNil(t, berlin2026)
	require.Equal(t, 19, berlin2026.Workforce.StartHeadcount)

	for _, total := range result.KPI.Totals {
		require.Equal(t, 19*2, total.Workforce.Headcount)
	}
}

func TestComputeGrowth(t *testing.T) {
	g := simulation.ComputeGrowth(120, 100)
	require.InDelta(t, 0.2, g.Growth, 1e-9)

	// Нулевой базовый снимок не приводит к делению на ноль
	g = simulation.ComputeGrowth(120, 0)
	require.Zero(t, g.Growth)
}
