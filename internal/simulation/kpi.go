package simulation

// WorkforceKPI - показатели движения персонала за период.
// Ставки считаются против численности на начало периода,
// не на конец - выбор знаменателя несущий.
type WorkforceKPI struct {
	StartHeadcount int     `json:"start_headcount"`
	Headcount      int     `json:"headcount"`
	Hires          int     `json:"hires"`
	Churns         int     `json:"churns"`
	Promotions     int     `json:"promotions"`
	HireRate       float64 `json:"hire_rate"`
	ChurnRate      float64 `json:"churn_rate"`
	PromotionRate  float64 `json:"promotion_rate"`
}

// FinancialKPI - финансовые показатели за период. Маржа равна 0
// при нулевой выручке, показатели на FTE равны 0 при нулевой
// численности - деление никогда не падает.
type FinancialKPI struct {
	Revenue       float64 `json:"revenue"`
	Cost          float64 `json:"cost"`
	Profit        float64 `json:"profit"`
	Margin        float64 `json:"margin"`
	RevenuePerFTE float64 `json:"revenue_per_fte"`
	CostPerFTE    float64 `json:"cost_per_fte"`
}

// LevelFinance - вклад уровня в выручку и затраты месяца
type LevelFinance struct {
	Role             string   `json:"role"`
	Level            string   `json:"level"`
	Kind             RoleKind `json:"kind"`
	Revenue          float64  `json:"revenue"`
	Cost             float64  `json:"cost"`
	AttributedTarget float64  `json:"attributed_target,omitempty"`
}

// MonthKPI - показатели одного офиса за один месяц
type MonthKPI struct {
	Office    string         `json:"office"`
	Year      int            `json:"year"`
	Month     int            `json:"month"`
	Workforce WorkforceKPI   `json:"workforce"`
	Financial FinancialKPI   `json:"financial"`
	Levels    []LevelFinance `json:"levels"`
}

// YearKPI - годовая свёртка по офису
type YearKPI struct {
	Office    string       `json:"office"`
	Year      int          `json:"year"`
	Workforce WorkforceKPI `json:"workforce"`
	Financial FinancialKPI `json:"financial"`
}

// TotalKPI - свёртка по всем офисам за год
type TotalKPI struct {
	Year      int          `json:"year"`
	Workforce WorkforceKPI `json:"workforce"`
	Financial FinancialKPI `json:"financial"`
}

// KPIReport - полный набор показателей запуска
type KPIReport struct {
	Months []MonthKPI `json:"months"`
	Years  []YearKPI  `json:"years"`
	Totals []TotalKPI `json:"totals"`
}

// GrowthKPI сравнивает текущую численность с отдельно переданным
// базовым снимком. Базовый снимок - не стартовый месяц сценария:
// это две разные точки отсчёта.
type GrowthKPI struct {
	Headcount         int     `json:"headcount"`
	BaselineHeadcount int     `json:"baseline_headcount"`
	Growth            float64 `json:"growth"`
}

// ComputeGrowth считает рост численности против базового снимка
func ComputeGrowth(current, baseline int) GrowthKPI {
	g := GrowthKPI{Headcount: current, BaselineHeadcount: baseline}
	if baseline > 0 {
		g.Growth = float64(current-baseline) / float64(baseline)
	}
	return g
}

// Aggregate превращает помесячные результаты симуляции и разрешённые
// параметры в таблицы KPI: по месяцам, по годам и по всем офисам.
func Aggregate(months []MonthlyResult, resolved *ResolvedParams) *KPIReport {
	report := &KPIReport{}

	type yearAcc struct {
		startHeadcount int
		started        bool
		workforce      WorkforceKPI
		financial      FinancialKPI
	}
	yearByOffice := make(map[string]map[int]*yearAcc)
	var yearOrder []YearKPI

	for _, mr := range months {
		kpi := monthKPI(mr, resolved)
		report.Months = append(report.Months, kpi)

		if yearByOffice[mr.Office] == nil {
			yearByOffice[mr.Office] = make(map[int]*yearAcc)
		}
		acc := yearByOffice[mr.Office][mr.Year]
		if acc == nil {
			acc = &yearAcc{}
			yearByOffice[mr.Office][mr.Year] = acc
			yearOrder = append(yearOrder, YearKPI{Office: mr.Office, Year: mr.Year})
		}
		if !acc.started {
			acc.startHeadcount = kpi.Workforce.StartHeadcount
			acc.started = true
		}
		acc.workforce.Headcount = kpi.Workforce.Headcount
		acc.workforce.Hires += kpi.Workforce.Hires
		acc.workforce.Churns += kpi.Workforce.Churns
		acc.workforce.Promotions += kpi.Workforce.Promotions
		acc.financial.Revenue += kpi.Financial.Revenue
		acc.financial.Cost += kpi.Financial.Cost
	}

	// Годовые свёртки в порядке появления месяцев
	for _, yk := range yearOrder {
		acc := yearByOffice[yk.Office][yk.Year]
		yk.Workforce = finishWorkforce(acc.startHeadcount, acc.workforce)
		yk.Financial = finishFinancial(acc.financial.Revenue, acc.financial.Cost, acc.workforce.Headcount)
		report.Years = append(report.Years, yk)
	}

	// Свёртка по всем офисам за год
	totalByYear := make(map[int]*yearAcc)
	var totalYears []int
	for _, yk := range report.Years {
		acc := totalByYear[yk.Year]
		if acc == nil {
			acc = &yearAcc{}
			totalByYear[yk.Year] = acc
			totalYears = append(totalYears, yk.Year)
		}
		acc.startHeadcount += yk.Workforce.StartHeadcount
		acc.workforce.Headcount += yk.Workforce.Headcount
		acc.workforce.Hires += yk.Workforce.Hires
		acc.workforce.Churns += yk.Workforce.Churns
		acc.workforce.Promotions += yk.Workforce.Promotions
		acc.financial.Revenue += yk.Financial.Revenue
		acc.financial.Cost += yk.Financial.Cost
	}
	for _, year := range totalYears {
		acc := totalByYear[year]
		report.Totals = append(report.Totals, TotalKPI{
			Year:      year,
			Workforce: finishWorkforce(acc.startHeadcount, acc.workforce),
			Financial: finishFinancial(acc.financial.Revenue, acc.financial.Cost, acc.workforce.Headcount),
		})
	}

	return report
}

// monthKPI считает показатели одного офиса за один месяц
func monthKPI(mr MonthlyResult, resolved *ResolvedParams) MonthKPI {
	kpi := MonthKPI{Office: mr.Office, Year: mr.Year, Month: mr.Month}
	eco := resolved.Economics
	office := resolved.Offices[mr.Office]

	start, end := 0, 0
	hires, churns, promotions := 0, 0, 0
	for _, row := range mr.Levels {
		start += row.StartFTE
		end += row.FTE
		hires += row.Recruited
		churns += row.Churned
		promotions += row.PromotedOut
	}
	kpi.Workforce = finishWorkforce(start, WorkforceKPI{
		Headcount:  end,
		Hires:      hires,
		Churns:     churns,
		Promotions: promotions,
	})

	// Оплачиваемые часы месяца за вычетом внеплановых отсутствий
	billableHours := eco.WorkingHoursPerMonth * (1 - eco.UnplannedAbsence)

	// Выручка оплачиваемых ролей считается первой: комиссионные роли
	// берут процент от общего пула выручки офиса
	billableRevenue := 0.0
	billableHeadcount := 0
	kinds := make(map[LevelRef]LevelConfig, len(mr.Levels))
	for _, row := range mr.Levels {
		ref := LevelRef{Role: row.Role, Level: row.Level}
		var cfg LevelConfig
		if office != nil {
			if lvl, ok := office.Levels[ref]; ok {
				cfg = lvl.Config
			}
		}
		kinds[ref] = cfg
		if cfg.Kind == RoleBillable {
			billableRevenue += float64(row.FTE) * row.Price * billableHours * row.UTR
			billableHeadcount += row.FTE
		}
	}

	target := eco.RevenueTargets[mr.Office]
	totalRevenue, totalCost := 0.0, 0.0

	for _, row := range mr.Levels {
		ref := LevelRef{Role: row.Role, Level: row.Level}
		cfg := kinds[ref]

		lf := LevelFinance{Role: row.Role, Level: row.Level, Kind: cfg.Kind}
		switch cfg.Kind {
		case RoleBillable:
			lf.Revenue = float64(row.FTE) * row.Price * billableHours * row.UTR
			// Пропорциональное распределение целевой выручки офиса
			// по доле численности оплачиваемых ролей
			if target > 0 && billableHeadcount > 0 {
				lf.AttributedTarget = target * float64(row.FTE) / float64(billableHeadcount)
			}
		case RoleCommission:
			// Не зависит от собственной численности
			lf.Revenue = cfg.CommissionRate * billableRevenue
		case RoleFee:
			lf.Revenue = cfg.FeePerHead * float64(row.FTE)
		case RoleCostCenter:
			// Только затраты
		}
		lf.Cost = float64(row.FTE) * row.Salary * (1 + eco.EmploymentCostRate)

		totalRevenue += lf.Revenue
		totalCost += lf.Cost
		kpi.Levels = append(kpi.Levels, lf)
	}

	totalCost += eco.OtherExpense
	kpi.Financial = finishFinancial(totalRevenue, totalCost, end)
	return kpi
}

func finishWorkforce(start int, w WorkforceKPI) WorkforceKPI {
	w.StartHeadcount = start
	if start > 0 {
		w.HireRate = float64(w.Hires) / float64(start)
		w.ChurnRate = float64(w.Churns) / float64(start)
		w.PromotionRate = float64(w.Promotions) / float64(start)
	}
	return w
}

func finishFinancial(revenue, cost float64, headcount int) FinancialKPI {
	f := FinancialKPI{Revenue: revenue, Cost: cost, Profit: revenue - cost}
	if revenue != 0 {
		f.Margin = f.Profit / revenue
	}
	if headcount > 0 {
		f.RevenuePerFTE = revenue / float64(headcount)
		f.CostPerFTE = cost / float64(headcount)
	}
	return f
}
