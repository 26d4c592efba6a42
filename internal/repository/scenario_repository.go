package repository

import (
	"context"

	"github.com/workforce-planning-api/internal/domain"
	"gorm.io/gorm"
)

// ScenarioRepository определяет интерфейс для работы со сценариями
// и их запусками
type ScenarioRepository interface {
	Create(ctx context.Context, scenario *domain.Scenario) error
	GetByID(ctx context.Context, id int64) (*domain.Scenario, error)
	List(ctx context.Context) ([]domain.Scenario, error)
	Delete(ctx context.Context, id int64) error
	CreateRun(ctx context.Context, run *domain.ScenarioRun) error
	GetRun(ctx context.Context, id string) (*domain.ScenarioRun, error)
	ListRuns(ctx context.Context, scenarioID *int64) ([]domain.ScenarioRun, error)
}

type scenarioRepository struct {
	db *gorm.DB
}

// NewScenarioRepository создаёт новый экземпляр репозитория
func NewScenarioRepository(db *gorm.DB) ScenarioRepository {
	return &scenarioRepository{db: db}
}

func (r *scenarioRepository) Create(ctx context.Context, scenario *domain.Scenario) error {
	return r.db.WithContext(ctx).Create(scenario).Error
}

func (r *scenarioRepository) GetByID(ctx context.Context, id int64) (*domain.Scenario, error) {
	var scenario domain.Scenario
	err := r.db.WithContext(ctx).First(&scenario, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrScenarioNotFound
		}
		return nil, err
	}
	return &scenario, nil
}

func (r *scenarioRepository) List(ctx context.Context) ([]domain.Scenario, error) {
	var scenarios []domain.Scenario
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&scenarios).Error
	return scenarios, err
}

func (r *scenarioRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Scenario{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrScenarioNotFound
	}
	return nil
}

func (r *scenarioRepository) CreateRun(ctx context.Context, run *domain.ScenarioRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *scenarioRepository) GetRun(ctx context.Context, id string) (*domain.ScenarioRun, error) {
	var run domain.ScenarioRun
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

func (r *scenarioRepository) ListRuns(ctx context.Context, scenarioID *int64) ([]domain.ScenarioRun, error) {
	var runs []domain.ScenarioRun
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if scenarioID != nil {
		query = query.Where("scenario_id = ?", *scenarioID)
	}
	err := query.Find(&runs).Error
	return runs, err
}
