package repository

import (
	"context"

	"github.com/workforce-planning-api/internal/domain"
	"gorm.io/gorm"
)

// OfficeRepository определяет интерфейс для работы с офисами
type OfficeRepository interface {
	Create(ctx context.Context, office *domain.Office) error
	GetByID(ctx context.Context, id int64) (*domain.Office, error)
	GetByCode(ctx context.Context, code string) (*domain.Office, error)
	List(ctx context.Context) ([]domain.Office, error)
	ListByCodes(ctx context.Context, codes []string) ([]domain.Office, error)
	Update(ctx context.Context, office *domain.Office) error
	Delete(ctx context.Context, id int64) error
	ExistsByCode(ctx context.Context, code string, excludeID *int64) (bool, error)
	ReplaceLevels(ctx context.Context, officeID int64, levels []domain.LevelConfig) error
}

type officeRepository struct {
	db *gorm.DB
}

// NewOfficeRepository создаёт новый экземпляр репозитория
func NewOfficeRepository(db *gorm.DB) OfficeRepository {
	return &officeRepository{db: db}
}

func (r *officeRepository) Create(ctx context.Context, office *domain.Office) error {
	return r.db.WithContext(ctx).Create(office).Error
}

func (r *officeRepository) GetByID(ctx context.Context, id int64) (*domain.Office, error) {
	var office domain.Office
	err := r.preloaded(ctx).First(&office, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrOfficeNotFound
		}
		return nil, err
	}
	return &office, nil
}

func (r *officeRepository) GetByCode(ctx context.Context, code string) (*domain.Office, error) {
	var office domain.Office
	err := r.preloaded(ctx).Where("code = ?", code).First(&office).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrOfficeNotFound
		}
		return nil, err
	}
	return &office, nil
}

func (r *officeRepository) List(ctx context.Context) ([]domain.Office, error) {
	var offices []domain.Office
	err := r.preloaded(ctx).Order("code ASC").Find(&offices).Error
	return offices, err
}

func (r *officeRepository) ListByCodes(ctx context.Context, codes []string) ([]domain.Office, error) {
	var offices []domain.Office
	err := r.preloaded(ctx).Where("code IN ?", codes).Order("code ASC").Find(&offices).Error
	return offices, err
}

// preloaded загружает офис вместе с уровнями и кривыми повышения
func (r *officeRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Levels", func(db *gorm.DB) *gorm.DB {
			return db.Order("role ASC, level ASC")
		}).
		Preload("Levels.Curve", func(db *gorm.DB) *gorm.DB {
			return db.Order("tenure_bucket ASC")
		})
}

func (r *officeRepository) Update(ctx context.Context, office *domain.Office) error {
	return r.db.WithContext(ctx).Save(office).Error
}

func (r *officeRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Office{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrOfficeNotFound
	}
	return nil
}

func (r *officeRepository) ExistsByCode(ctx context.Context, code string, excludeID *int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Office{}).Where("code = ?", code)

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	err := query.Count(&count).Error
	return count > 0, err
}

func (r *officeRepository) ReplaceLevels(ctx context.Context, officeID int64, levels []domain.LevelConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []domain.LevelConfig
		if err := tx.Where("office_id = ?", officeID).Find(&existing).Error; err != nil {
			return err
		}
		for _, lc := range existing {
			if err := tx.Where("level_config_id = ?", lc.ID).Delete(&domain.CurvePoint{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("office_id = ?", officeID).Delete(&domain.LevelConfig{}).Error; err != nil {
			return err
		}

		for i := range levels {
			levels[i].OfficeID = officeID
		}
		if len(levels) == 0 {
			return nil
		}
		return tx.Create(&levels).Error
	})
}
