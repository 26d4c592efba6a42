package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/workforce-planning-api/internal/export"
	"github.com/workforce-planning-api/internal/simulation"
	"gopkg.in/yaml.v3"
)

// officesFile - YAML файл с конфигурациями офисов
type officesFile struct {
	Offices []officeYAML `yaml:"offices"`
}

type officeYAML struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Journey string      `yaml:"journey"`
	Levels  []levelYAML `yaml:"levels"`
}

type levelYAML struct {
	Role           string          `yaml:"role"`
	Level          string          `yaml:"level"`
	RoleKind       string          `yaml:"role_kind"`
	StartingFTE    int             `yaml:"starting_fte"`
	Price          float64         `yaml:"price"`
	Salary         float64         `yaml:"salary"`
	UTR            float64         `yaml:"utr"`
	FeePerHead     float64         `yaml:"fee_per_head"`
	CommissionRate float64         `yaml:"commission_rate"`
	NextLevel      string          `yaml:"next_level"`
	EligibleMonths []int           `yaml:"eligible_months"`
	Curve          map[int]float64 `yaml:"curve"`
}

// scenarioFile - YAML файл с определением сценария.
// Ключи месяцев в базовых показателях записываются числами YYYYMM.
type scenarioFile struct {
	TimeRange struct {
		StartYear  int `yaml:"start_year"`
		StartMonth int `yaml:"start_month"`
		EndYear    int `yaml:"end_year"`
		EndMonth   int `yaml:"end_month"`
	} `yaml:"time_range"`
	OfficeScope []string `yaml:"office_scope"`
	Baseline    struct {
		Global  map[string]map[string]baselineYAML            `yaml:"global"`
		Offices map[string]map[string]map[string]baselineYAML `yaml:"offices"`
	} `yaml:"baseline_input"`
	Levers struct {
		Global  leverSetYAML            `yaml:"global"`
		Offices map[string]leverSetYAML `yaml:"offices"`
	} `yaml:"levers"`
	Economics struct {
		WorkingHoursPerMonth float64            `yaml:"working_hours_per_month"`
		EmploymentCostRate   float64            `yaml:"employment_cost_rate"`
		UnplannedAbsence     float64            `yaml:"unplanned_absence"`
		OtherExpense         float64            `yaml:"other_expense"`
		RevenueTargets       map[string]float64 `yaml:"revenue_targets"`
	} `yaml:"economic_params"`
}

type baselineYAML struct {
	Recruitment map[int]int `yaml:"recruitment"`
	Churn       map[int]int `yaml:"churn"`
}

type leverSetYAML struct {
	Recruitment map[string]float64 `yaml:"recruitment"`
	Churn       map[string]float64 `yaml:"churn"`
	Price       map[string]float64 `yaml:"price"`
	Salary      map[string]float64 `yaml:"salary"`
	UTR         map[string]float64 `yaml:"utr"`
	Progression map[string]float64 `yaml:"progression"`
}

func main() {
	officesPath := flag.String("offices", "", "path to office config YAML")
	scenarioPath := flag.String("scenario", "", "path to scenario YAML")
	seed := flag.Int64("seed", 0, "simulation seed (0 picks a random seed)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *officesPath == "" || *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: simulate -offices offices.yaml -scenario scenario.yaml [-seed N]")
		os.Exit(2)
	}

	configs, err := loadOffices(*officesPath)
	if err != nil {
		logger.Error("failed to load office config", slog.Any("error", err))
		os.Exit(1)
	}

	def, err := loadScenario(*scenarioPath)
	if err != nil {
		logger.Error("failed to load scenario", slog.Any("error", err))
		os.Exit(1)
	}

	runSeed := *seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}

	result, err := simulation.Run(def, configs, simulation.RunOptions{Seed: runSeed})
	if err != nil {
		logger.Error("simulation failed", slog.Any("error", err))
		os.Exit(1)
	}

	data, err := export.MarshalRunResult(result)
	if err != nil {
		logger.Error("failed to serialize result", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("simulation finished",
		slog.String("run_id", result.RunID),
		slog.Int64("seed", result.Seed),
		slog.Int("months", len(result.Months)),
	)

	os.Stdout.Write(data)
	fmt.Println()
}

func loadOffices(path string) ([]simulation.OfficeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file officesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	configs := make([]simulation.OfficeConfig, 0, len(file.Offices))
	for _, o := range file.Offices {
		cfg := simulation.OfficeConfig{
			ID:      o.ID,
			Name:    o.Name,
			Journey: o.Journey,
		}
		for _, l := range o.Levels {
			cfg.Levels = append(cfg.Levels, simulation.LevelConfig{
				Role:           l.Role,
				Level:          l.Level,
				Kind:           simulation.RoleKind(l.RoleKind),
				StartingFTE:    l.StartingFTE,
				Price:          l.Price,
				Salary:         l.Salary,
				UTR:            l.UTR,
				FeePerHead:     l.FeePerHead,
				CommissionRate: l.CommissionRate,
				NextLevel:      l.NextLevel,
				EligibleMonths: l.EligibleMonths,
				Curve:          simulation.Curve(l.Curve),
			})
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

func loadScenario(path string) (simulation.ScenarioDefinition, error) {
	var def simulation.ScenarioDefinition

	data, err := os.ReadFile(path)
	if err != nil {
		return def, err
	}

	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return def, fmt.Errorf("parsing %s: %w", path, err)
	}

	def.TimeRange = simulation.TimeRange{
		StartYear:  file.TimeRange.StartYear,
		StartMonth: file.TimeRange.StartMonth,
		EndYear:    file.TimeRange.EndYear,
		EndMonth:   file.TimeRange.EndMonth,
	}
	def.OfficeScope = file.OfficeScope
	def.Baseline.Global = toBaselineLayer(file.Baseline.Global)
	if len(file.Baseline.Offices) > 0 {
		def.Baseline.Offices = make(map[string]map[string]map[string]simulation.BaselineEntry, len(file.Baseline.Offices))
		for officeID, layer := range file.Baseline.Offices {
			def.Baseline.Offices[officeID] = toBaselineLayer(layer)
		}
	}
	def.Levers.Global = toLeverSet(file.Levers.Global)
	if len(file.Levers.Offices) > 0 {
		def.Levers.Offices = make(map[string]simulation.LeverSet, len(file.Levers.Offices))
		for officeID, set := range file.Levers.Offices {
			def.Levers.Offices[officeID] = toLeverSet(set)
		}
	}
	def.Economics = simulation.EconomicParams{
		WorkingHoursPerMonth: file.Economics.WorkingHoursPerMonth,
		EmploymentCostRate:   file.Economics.EmploymentCostRate,
		UnplannedAbsence:     file.Economics.UnplannedAbsence,
		OtherExpense:         file.Economics.OtherExpense,
		RevenueTargets:       file.Economics.RevenueTargets,
	}

	return def, nil
}

func toBaselineLayer(in map[string]map[string]baselineYAML) map[string]map[string]simulation.BaselineEntry {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]map[string]simulation.BaselineEntry, len(in))
	for role, byLevel := range in {
		out[role] = make(map[string]simulation.BaselineEntry, len(byLevel))
		for level, entry := range byLevel {
			out[role][level] = simulation.BaselineEntry{
				Recruitment: toMonthCounts(entry.Recruitment),
				Churn:       toMonthCounts(entry.Churn),
			}
		}
	}
	return out
}

func toMonthCounts(in map[int]int) map[simulation.MonthKey]int {
	if len(in) == 0 {
		return nil
	}
	out := make(map[simulation.MonthKey]int, len(in))
	for key, v := range in {
		out[simulation.MonthKey(key)] = v
	}
	return out
}

func toLeverSet(in leverSetYAML) simulation.LeverSet {
	return simulation.LeverSet{
		Recruitment: in.Recruitment,
		Churn:       in.Churn,
		Price:       in.Price,
		Salary:      in.Salary,
		UTR:         in.UTR,
		Progression: in.Progression,
	}
}
