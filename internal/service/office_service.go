package service

import (
	"context"
	"strings"

	"github.com/workforce-planning-api/internal/domain"
	"github.com/workforce-planning-api/internal/dto"
	"github.com/workforce-planning-api/internal/repository"
	"github.com/workforce-planning-api/internal/simulation"
)

// OfficeService определяет интерфейс бизнес-логики для офисов
type OfficeService interface {
	Create(ctx context.Context, req *dto.CreateOfficeRequest) (*domain.Office, error)
	GetByID(ctx context.Context, id int64) (*domain.Office, error)
	List(ctx context.Context) ([]domain.Office, error)
	Update(ctx context.Context, id int64, req *dto.UpdateOfficeRequest) (*domain.Office, error)
	Delete(ctx context.Context, id int64) error
}

type officeService struct {
	officeRepo repository.OfficeRepository
}

// NewOfficeService создаёт новый экземпляр сервиса
func NewOfficeService(officeRepo repository.OfficeRepository) OfficeService {
	return &officeService{officeRepo: officeRepo}
}

func (s *officeService) Create(ctx context.Context, req *dto.CreateOfficeRequest) (*domain.Office, error) {
	code := strings.TrimSpace(req.Code)

	// Проверяем уникальность кода офиса
	exists, err := s.officeRepo.ExistsByCode(ctx, code, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateOfficeCode
	}

	levels, err := toLevelModels(req.Levels)
	if err != nil {
		return nil, err
	}

	journey := req.Journey
	if journey == "" {
		journey = "established"
	}

	office := &domain.Office{
		Code:    code,
		Name:    strings.TrimSpace(req.Name),
		Journey: journey,
		Levels:  levels,
	}

	if err := s.officeRepo.Create(ctx, office); err != nil {
		return nil, err
	}

	return s.officeRepo.GetByID(ctx, office.ID)
}

func (s *officeService) GetByID(ctx context.Context, id int64) (*domain.Office, error) {
	return s.officeRepo.GetByID(ctx, id)
}

func (s *officeService) List(ctx context.Context) ([]domain.Office, error) {
	return s.officeRepo.List(ctx)
}

func (s *officeService) Update(ctx context.Context, id int64, req *dto.UpdateOfficeRequest) (*domain.Office, error) {
	office, err := s.officeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		office.Name = strings.TrimSpace(*req.Name)
	}
	if req.Journey != nil {
		office.Journey = *req.Journey
	}

	// Конфигурация уровней заменяется целиком, если передана
	if req.Levels != nil {
		levels, err := toLevelModels(*req.Levels)
		if err != nil {
			return nil, err
		}
		if err := s.officeRepo.ReplaceLevels(ctx, id, levels); err != nil {
			return nil, err
		}
		office.Levels = nil
	}

	if err := s.officeRepo.Update(ctx, office); err != nil {
		return nil, err
	}

	return s.officeRepo.GetByID(ctx, id)
}

func (s *officeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.officeRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.officeRepo.Delete(ctx, id)
}

// toLevelModels переводит входные уровни в модели хранения,
// отсекая дубли (роль, уровень) внутри одного офиса
func toLevelModels(inputs []dto.LevelConfigInput) ([]domain.LevelConfig, error) {
	seen := make(map[string]bool, len(inputs))
	levels := make([]domain.LevelConfig, 0, len(inputs))

	for _, in := range inputs {
		key := in.Role + "/" + in.Level
		if seen[key] {
			return nil, domain.ErrDuplicateLevel
		}
		seen[key] = true

		switch simulation.RoleKind(in.RoleKind) {
		case simulation.RoleBillable, simulation.RoleCommission, simulation.RoleFee, simulation.RoleCostCenter:
		default:
			return nil, domain.ErrUnknownRoleKind
		}

		lc := domain.LevelConfig{
			Role:           in.Role,
			Level:          in.Level,
			RoleKind:       in.RoleKind,
			StartingFTE:    in.StartingFTE,
			Price:          in.Price,
			Salary:         in.Salary,
			UTR:            in.UTR,
			FeePerHead:     in.FeePerHead,
			CommissionRate: in.CommissionRate,
			NextLevel:      in.NextLevel,
			EligibleMonths: joinMonths(in.EligibleMonths),
		}
		for _, cp := range in.Curve {
			lc.Curve = append(lc.Curve, domain.CurvePoint{
				TenureBucket: cp.TenureBucket,
				Probability:  cp.Probability,
			})
		}
		levels = append(levels, lc)
	}

	return levels, nil
}
