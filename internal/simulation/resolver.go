package simulation

import (
	"math"
	"sort"
)

// Resolve сводит слоистое определение сценария и конфигурации офисов
// в полностью заданные помесячные параметры. Чистая функция:
// одинаковые входы всегда дают одинаковый результат.
//
// Порядок слоёв от низшего к высшему приоритету:
//  1. сохранённая конфигурация офиса (цены, зарплаты, UTR, кривые);
//  2. глобальные базовые переопределения сценария (абсолютные
//     значения найма и оттока);
//  3. офисные базовые переопределения той же формы;
//  4. рычаги: глобальный слой, офисный слой умножается поверх него.
//
// Ссылки сценария на офисы, роли и уровни, отсутствующие в
// конфигурации, молча игнорируются: сценарии часто пишутся против
// надмножества возможных уровней.
func Resolve(def ScenarioDefinition, configs []OfficeConfig) *ResolvedParams {
	resolved := &ResolvedParams{
		Range:     def.TimeRange,
		Economics: def.Economics,
		Offices:   make(map[string]*ResolvedOffice),
	}

	scope := make(map[string]bool)
	for _, id := range def.OfficeScope {
		scope[id] = true
	}

	months := def.TimeRange.Months()

	for _, cfg := range configs {
		// Офисы вне scope отбрасываются целиком, а не обнуляются
		if len(scope) > 0 && !scope[cfg.ID] {
			continue
		}

		office := &ResolvedOffice{
			ID:     cfg.ID,
			Levels: make(map[LevelRef]*ResolvedLevel),
		}

		officeLevers, hasOfficeLevers := def.Levers.Offices[cfg.ID]

		for _, lc := range cfg.Levels {
			lvl := &ResolvedLevel{
				Config: lc,
				Months: make(map[MonthKey]LevelParams, len(months)),
			}

			recruitLever := leverFor(def.Levers.Global.Recruitment, lc.Level)
			churnLever := leverFor(def.Levers.Global.Churn, lc.Level)
			priceLever := leverFor(def.Levers.Global.Price, lc.Level)
			salaryLever := leverFor(def.Levers.Global.Salary, lc.Level)
			utrLever := leverFor(def.Levers.Global.UTR, lc.Level)
			progressionLever := leverFor(def.Levers.Global.Progression, lc.Level)

			if hasOfficeLevers {
				recruitLever *= leverFor(officeLevers.Recruitment, lc.Level)
				churnLever *= leverFor(officeLevers.Churn, lc.Level)
				priceLever *= leverFor(officeLevers.Price, lc.Level)
				salaryLever *= leverFor(officeLevers.Salary, lc.Level)
				utrLever *= leverFor(officeLevers.UTR, lc.Level)
				progressionLever *= leverFor(officeLevers.Progression, lc.Level)
			}

			globalEntry, hasGlobal := baselineEntry(def.Baseline.Global, lc.Role, lc.Level)
			officeEntry, hasOffice := baselineEntry(def.Baseline.Offices[cfg.ID], lc.Role, lc.Level)

			for _, key := range months {
				recruitment, churn := 0, 0
				if hasGlobal {
					if v, ok := globalEntry.Recruitment[key]; ok {
						recruitment = v
					}
					if v, ok := globalEntry.Churn[key]; ok {
						churn = v
					}
				}
				// Офисное переопределение выигрывает у глобального
				if hasOffice {
					if v, ok := officeEntry.Recruitment[key]; ok {
						recruitment = v
					}
					if v, ok := officeEntry.Churn[key]; ok {
						churn = v
					}
				}

				lvl.Months[key] = LevelParams{
					Recruitment:     scaleCount(recruitment, recruitLever),
					Churn:           scaleCount(churn, churnLever),
					Price:           lc.Price * priceLever,
					Salary:          lc.Salary * salaryLever,
					UTR:             lc.UTR * utrLever,
					ProgressionMult: progressionLever,
				}
			}

			office.Levels[lc.Ref()] = lvl
		}

		office.order = sortedLevelRefs(office.Levels)
		resolved.Offices[cfg.ID] = office
		resolved.order = append(resolved.order, cfg.ID)
	}

	sort.Strings(resolved.order)
	return resolved
}

// leverFor возвращает рычаг уровня или нейтральный множитель 1
func leverFor(m map[string]float64, level string) float64 {
	if v, ok := m[level]; ok {
		return v
	}
	return 1
}

// baselineEntry ищет запись role -> level в слое базовых данных
func baselineEntry(layer map[string]map[string]BaselineEntry, role, level string) (BaselineEntry, bool) {
	if layer == nil {
		return BaselineEntry{}, false
	}
	byLevel, ok := layer[role]
	if !ok {
		return BaselineEntry{}, false
	}
	entry, ok := byLevel[level]
	return entry, ok
}

// scaleCount применяет рычаг к абсолютному количеству людей
// с округлением до ближайшего целого
func scaleCount(count int, lever float64) int {
	if lever == 1 {
		return count
	}
	return int(math.Round(float64(count) * lever))
}
