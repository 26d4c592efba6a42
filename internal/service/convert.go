package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/workforce-planning-api/internal/domain"
	"github.com/workforce-planning-api/internal/dto"
	"github.com/workforce-planning-api/internal/simulation"
)

// toOfficeConfig переводит сохранённый офис в конфигурацию ядра.
// Идентификатором офиса в симуляции служит его код.
func toOfficeConfig(office domain.Office) simulation.OfficeConfig {
	cfg := simulation.OfficeConfig{
		ID:      office.Code,
		Name:    office.Name,
		Journey: office.Journey,
	}

	for _, lc := range office.Levels {
		level := simulation.LevelConfig{
			Role:           lc.Role,
			Level:          lc.Level,
			Kind:           simulation.RoleKind(lc.RoleKind),
			StartingFTE:    lc.StartingFTE,
			Price:          lc.Price,
			Salary:         lc.Salary,
			UTR:            lc.UTR,
			FeePerHead:     lc.FeePerHead,
			CommissionRate: lc.CommissionRate,
			NextLevel:      lc.NextLevel,
			EligibleMonths: splitMonths(lc.EligibleMonths),
		}
		if len(lc.Curve) > 0 {
			level.Curve = make(simulation.Curve, len(lc.Curve))
			for _, cp := range lc.Curve {
				level.Curve[cp.TenureBucket] = cp.Probability
			}
		}
		cfg.Levels = append(cfg.Levels, level)
	}

	return cfg
}

// toDefinition переводит определение сценария с границы API
// в значение ядра; ключи месяцев YYYYMM разбираются здесь
func toDefinition(in dto.ScenarioDefinitionInput) (simulation.ScenarioDefinition, error) {
	def := simulation.ScenarioDefinition{
		TimeRange: simulation.TimeRange{
			StartYear:  in.TimeRange.StartYear,
			StartMonth: in.TimeRange.StartMonth,
			EndYear:    in.TimeRange.EndYear,
			EndMonth:   in.TimeRange.EndMonth,
		},
		OfficeScope: in.OfficeScope,
		Levers: simulation.Levers{
			Global: toLeverSet(in.Levers.Global),
		},
		Economics: simulation.EconomicParams{
			WorkingHoursPerMonth: in.Economics.WorkingHoursPerMonth,
			EmploymentCostRate:   in.Economics.EmploymentCostRate,
			UnplannedAbsence:     in.Economics.UnplannedAbsence,
			OtherExpense:         in.Economics.OtherExpense,
			RevenueTargets:       in.Economics.RevenueTargets,
		},
	}

	if len(in.Levers.Offices) > 0 {
		def.Levers.Offices = make(map[string]simulation.LeverSet, len(in.Levers.Offices))
		for officeID, set := range in.Levers.Offices {
			def.Levers.Offices[officeID] = toLeverSet(set)
		}
	}

	global, err := toBaselineLayer(in.Baseline.Global)
	if err != nil {
		return def, err
	}
	def.Baseline.Global = global

	if len(in.Baseline.Offices) > 0 {
		def.Baseline.Offices = make(map[string]map[string]map[string]simulation.BaselineEntry, len(in.Baseline.Offices))
		for officeID, layer := range in.Baseline.Offices {
			converted, err := toBaselineLayer(layer)
			if err != nil {
				return def, err
			}
			def.Baseline.Offices[officeID] = converted
		}
	}

	return def, nil
}

func toLeverSet(in dto.LeverSetInput) simulation.LeverSet {
	return simulation.LeverSet{
		Recruitment: in.Recruitment,
		Churn:       in.Churn,
		Price:       in.Price,
		Salary:      in.Salary,
		UTR:         in.UTR,
		Progression: in.Progression,
	}
}

func toBaselineLayer(in map[string]map[string]dto.BaselineEntryInput) (map[string]map[string]simulation.BaselineEntry, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]map[string]simulation.BaselineEntry, len(in))
	for role, byLevel := range in {
		out[role] = make(map[string]simulation.BaselineEntry, len(byLevel))
		for level, entry := range byLevel {
			recruitment, err := toMonthCounts(entry.Recruitment)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %v", domain.ErrInvalidScenario, role, level, err)
			}
			churn, err := toMonthCounts(entry.Churn)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %v", domain.ErrInvalidScenario, role, level, err)
			}
			out[role][level] = simulation.BaselineEntry{
				Recruitment: recruitment,
				Churn:       churn,
			}
		}
	}
	return out, nil
}

// toMonthCounts разбирает ключи месяцев вида YYYYMM
func toMonthCounts(in map[string]int) (map[simulation.MonthKey]int, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[simulation.MonthKey]int, len(in))
	for key, v := range in {
		if len(key) != 6 {
			return nil, fmt.Errorf("month key %q is not in YYYYMM format", key)
		}
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("month key %q is not in YYYYMM format", key)
		}
		out[simulation.MonthKey(n)] = v
	}
	return out, nil
}

// joinMonths сериализует список месяцев в строку "1,4,7,10"
func joinMonths(months []int) string {
	if len(months) == 0 {
		return ""
	}
	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ",")
}

// splitMonths разбирает строку "1,4,7,10" в список месяцев
func splitMonths(s string) []int {
	if s == "" {
		return nil
	}
	var months []int
	for _, part := range strings.Split(s, ",") {
		if m, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			months = append(months, m)
		}
	}
	return months
}
