package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/workforce-planning-api/internal/domain"
	"github.com/workforce-planning-api/internal/dto"
	"github.com/workforce-planning-api/internal/export"
	"github.com/workforce-planning-api/internal/repository"
	"github.com/workforce-planning-api/internal/simulation"
)

// ScenarioService определяет интерфейс бизнес-логики для сценариев
// и запусков симуляции
type ScenarioService interface {
	Create(ctx context.Context, req *dto.CreateScenarioRequest) (*domain.Scenario, error)
	GetByID(ctx context.Context, id int64) (*domain.Scenario, error)
	List(ctx context.Context) ([]domain.Scenario, error)
	Delete(ctx context.Context, id int64) error
	Run(ctx context.Context, scenarioID int64, seed *int64) (*domain.ScenarioRun, *simulation.RunResult, error)
	Simulate(ctx context.Context, def dto.ScenarioDefinitionInput, seed *int64) (*domain.ScenarioRun, *simulation.RunResult, error)
	GetRun(ctx context.Context, id string) (*domain.ScenarioRun, error)
	ListRuns(ctx context.Context, scenarioID *int64) ([]domain.ScenarioRun, error)
}

type scenarioService struct {
	scenarioRepo repository.ScenarioRepository
	officeRepo   repository.OfficeRepository
}

// NewScenarioService создаёт новый экземпляр сервиса
func NewScenarioService(scenarioRepo repository.ScenarioRepository, officeRepo repository.OfficeRepository) ScenarioService {
	return &scenarioService{
		scenarioRepo: scenarioRepo,
		officeRepo:   officeRepo,
	}
}

func (s *scenarioService) Create(ctx context.Context, req *dto.CreateScenarioRequest) (*domain.Scenario, error) {
	// Определение проверяется конвертацией до сохранения:
	// заведомо некорректный сценарий не попадает в хранилище
	if _, err := toDefinition(req.Definition); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(req.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshaling scenario definition: %w", err)
	}

	scenario := &domain.Scenario{
		Name:       strings.TrimSpace(req.Name),
		Definition: string(raw),
	}

	if err := s.scenarioRepo.Create(ctx, scenario); err != nil {
		return nil, err
	}

	return scenario, nil
}

func (s *scenarioService) GetByID(ctx context.Context, id int64) (*domain.Scenario, error) {
	return s.scenarioRepo.GetByID(ctx, id)
}

func (s *scenarioService) List(ctx context.Context) ([]domain.Scenario, error) {
	return s.scenarioRepo.List(ctx)
}

func (s *scenarioService) Delete(ctx context.Context, id int64) error {
	return s.scenarioRepo.Delete(ctx, id)
}

func (s *scenarioService) Run(ctx context.Context, scenarioID int64, seed *int64) (*domain.ScenarioRun, *simulation.RunResult, error) {
	scenario, err := s.scenarioRepo.GetByID(ctx, scenarioID)
	if err != nil {
		return nil, nil, err
	}

	var def dto.ScenarioDefinitionInput
	if err := json.Unmarshal([]byte(scenario.Definition), &def); err != nil {
		return nil, nil, fmt.Errorf("%w: stored definition is unreadable: %v", domain.ErrInvalidScenario, err)
	}

	return s.simulate(ctx, def, &scenario.ID, seed)
}

func (s *scenarioService) Simulate(ctx context.Context, def dto.ScenarioDefinitionInput, seed *int64) (*domain.ScenarioRun, *simulation.RunResult, error) {
	return s.simulate(ctx, def, nil, seed)
}

// simulate выполняет запуск синхронно: конвертация определения,
// загрузка конфигураций офисов, прогон ядра, сохранение результата
func (s *scenarioService) simulate(ctx context.Context, in dto.ScenarioDefinitionInput, scenarioID *int64, seed *int64) (*domain.ScenarioRun, *simulation.RunResult, error) {
	def, err := toDefinition(in)
	if err != nil {
		return nil, nil, err
	}

	var offices []domain.Office
	if len(def.OfficeScope) > 0 {
		offices, err = s.officeRepo.ListByCodes(ctx, def.OfficeScope)
	} else {
		offices, err = s.officeRepo.List(ctx)
	}
	if err != nil {
		return nil, nil, err
	}

	configs := make([]simulation.OfficeConfig, 0, len(offices))
	for _, office := range offices {
		configs = append(configs, toOfficeConfig(office))
	}

	runSeed := time.Now().UnixNano()
	if seed != nil {
		runSeed = *seed
	}

	result, err := simulation.Run(def, configs, simulation.RunOptions{Seed: runSeed})
	if err != nil {
		if errors.Is(err, simulation.ErrValidation) {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrInvalidScenario, err)
		}
		var cerr *simulation.ConsistencyError
		if errors.As(err, &cerr) {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrSimulationFailed, err)
		}
		return nil, nil, err
	}

	raw, err := export.MarshalRunResult(result)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling run result: %w", err)
	}

	run := &domain.ScenarioRun{
		ID:         result.RunID,
		ScenarioID: scenarioID,
		Seed:       runSeed,
		StartYear:  def.TimeRange.StartYear,
		StartMonth: def.TimeRange.StartMonth,
		EndYear:    def.TimeRange.EndYear,
		EndMonth:   def.TimeRange.EndMonth,
		Result:     string(raw),
	}

	if err := s.scenarioRepo.CreateRun(ctx, run); err != nil {
		return nil, nil, err
	}

	return run, result, nil
}

func (s *scenarioService) GetRun(ctx context.Context, id string) (*domain.ScenarioRun, error) {
	return s.scenarioRepo.GetRun(ctx, id)
}

func (s *scenarioService) ListRuns(ctx context.Context, scenarioID *int64) ([]domain.ScenarioRun, error) {
	return s.scenarioRepo.ListRuns(ctx, scenarioID)
}
