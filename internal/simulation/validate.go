package simulation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation - базовая ошибка валидации сценария
var ErrValidation = errors.New("scenario validation failed")

// ValidationError собирает все проблемы сценария: сценарий
// отклоняется целиком, частичный запуск не выполняется
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scenario validation failed: %s", strings.Join(e.Issues, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validate проверяет определение сценария и конфигурации офисов
// перед запуском симуляции. Проверяются форма диапазона, диапазоны
// месяцев, значения долей и вероятностей в [0, 1] и неотрицательность
// рычагов. Ссылки на отсутствующие роли и уровни ошибкой не считаются.
func Validate(def ScenarioDefinition, configs []OfficeConfig) error {
	var issues []string

	tr := def.TimeRange
	if tr.StartMonth < 1 || tr.StartMonth > 12 {
		issues = append(issues, fmt.Sprintf("start_month %d out of range 1-12", tr.StartMonth))
	}
	if tr.EndMonth < 1 || tr.EndMonth > 12 {
		issues = append(issues, fmt.Sprintf("end_month %d out of range 1-12", tr.EndMonth))
	}
	if tr.StartYear < 1900 || tr.StartYear > 2200 {
		issues = append(issues, fmt.Sprintf("start_year %d out of range", tr.StartYear))
	}
	if tr.EndYear < 1900 || tr.EndYear > 2200 {
		issues = append(issues, fmt.Sprintf("end_year %d out of range", tr.EndYear))
	}
	if len(issues) == 0 && tr.End() < tr.Start() {
		issues = append(issues, fmt.Sprintf("time range end %s before start %s", tr.End(), tr.Start()))
	}

	issues = append(issues, validateLeverSet("levers.global", def.Levers.Global)...)
	for officeID, set := range def.Levers.Offices {
		issues = append(issues, validateLeverSet("levers.offices."+officeID, set)...)
	}

	issues = append(issues, validateBaselineLayer("baseline_input.global", def.Baseline.Global)...)
	for officeID, layer := range def.Baseline.Offices {
		issues = append(issues, validateBaselineLayer("baseline_input.offices."+officeID, layer)...)
	}

	eco := def.Economics
	if eco.WorkingHoursPerMonth <= 0 {
		issues = append(issues, "economic_params.working_hours_per_month must be positive")
	}
	if eco.EmploymentCostRate < 0 {
		issues = append(issues, "economic_params.employment_cost_rate must not be negative")
	}
	if eco.UnplannedAbsence < 0 || eco.UnplannedAbsence > 1 {
		issues = append(issues, "economic_params.unplanned_absence must be within [0, 1]")
	}
	if eco.OtherExpense < 0 {
		issues = append(issues, "economic_params.other_expense must not be negative")
	}

	for _, cfg := range configs {
		for _, lc := range cfg.Levels {
			prefix := fmt.Sprintf("office %s level %s", cfg.ID, lc.Ref())
			if lc.UTR < 0 || lc.UTR > 1 {
				issues = append(issues, prefix+": utr must be within [0, 1]")
			}
			if lc.CommissionRate < 0 || lc.CommissionRate > 1 {
				issues = append(issues, prefix+": commission_rate must be within [0, 1]")
			}
			if lc.StartingFTE < 0 {
				issues = append(issues, prefix+": starting_fte must not be negative")
			}
			for bucket, p := range lc.Curve {
				if bucket < 0 || bucket%catStep != 0 {
					issues = append(issues, fmt.Sprintf("%s: curve bucket %d is not a multiple of %d", prefix, bucket, catStep))
				}
				if p < 0 || p > 1 {
					issues = append(issues, fmt.Sprintf("%s: curve probability %g at bucket %d outside [0, 1]", prefix, p, bucket))
				}
			}
			for _, m := range lc.EligibleMonths {
				if m < 1 || m > 12 {
					issues = append(issues, fmt.Sprintf("%s: eligible month %d out of range 1-12", prefix, m))
				}
			}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func validateLeverSet(prefix string, set LeverSet) []string {
	var issues []string
	check := func(name string, m map[string]float64) {
		for level, v := range m {
			if v < 0 {
				issues = append(issues, fmt.Sprintf("%s.%s[%s] must not be negative, got %g", prefix, name, level, v))
			}
		}
	}
	check("recruitment", set.Recruitment)
	check("churn", set.Churn)
	check("price", set.Price)
	check("salary", set.Salary)
	check("utr", set.UTR)
	check("progression", set.Progression)
	return issues
}

func validateBaselineLayer(prefix string, layer map[string]map[string]BaselineEntry) []string {
	var issues []string
	for role, byLevel := range layer {
		for level, entry := range byLevel {
			for key, v := range entry.Recruitment {
				if v < 0 {
					issues = append(issues, fmt.Sprintf("%s.%s.%s: recruitment for %s must not be negative", prefix, role, level, key))
				}
				if key.Month() < 1 || key.Month() > 12 {
					issues = append(issues, fmt.Sprintf("%s.%s.%s: month key %s is malformed", prefix, role, level, key))
				}
			}
			for key, v := range entry.Churn {
				if v < 0 {
					issues = append(issues, fmt.Sprintf("%s.%s.%s: churn for %s must not be negative", prefix, role, level, key))
				}
				if key.Month() < 1 || key.Month() > 12 {
					issues = append(issues, fmt.Sprintf("%s.%s.%s: month key %s is malformed", prefix, role, level, key))
				}
			}
		}
	}
	return issues
}
