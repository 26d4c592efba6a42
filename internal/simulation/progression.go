package simulation

// catStep - шаг бакета стажа кривой повышения (CAT0, CAT6, CAT12, ...)
const catStep = 6

// PromotionProbability возвращает вероятность повышения за месяц
// для стажа tenureMonths по кривой curve с множителем mult.
// Стаж округляется вниз до ближайшего определённого бакета
// (стаж 8 использует бакет CAT6, без интерполяции). Если ни один
// бакет не определён ниже стажа, вероятность равна 0.
// Итоговое значение всегда зажимается в [0, 1].
func PromotionProbability(curve Curve, tenureMonths int, mult float64) float64 {
	if len(curve) == 0 || tenureMonths < 0 {
		return 0
	}

	bucket := tenureMonths - tenureMonths%catStep
	for ; bucket >= 0; bucket -= catStep {
		if _, ok := curve[bucket]; ok {
			break
		}
	}
	if bucket < 0 {
		return 0
	}

	p := curve[bucket] * mult
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// EligibleMonth сообщает, оценивается ли повышение уровня
// в календарном месяце month. Вне разрешённых месяцев вероятность
// принудительно равна нулю независимо от кривой.
func EligibleMonth(cfg LevelConfig, month int) bool {
	for _, m := range cfg.EligibleMonths {
		if m == month {
			return true
		}
	}
	return false
}

// Terminal сообщает, является ли уровень терминальным:
// уровень без следующего уровня никогда не повышается,
// даже при ненулевой кривой.
func Terminal(cfg LevelConfig) bool {
	return cfg.NextLevel == ""
}
