package repositories

import (
	"context"
	"fmt"
	"strings"

	"blog-cms/models"

	"gorm.io/gorm"
)

type PincodeRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Pincode, error)
	Search(ctx context.Context, query string, limit int) ([]models.Pincode, error)
	BulkCreate(ctx context.Context, pincodes []models.Pincode) error
}

type pincodeRepository struct {
	db *gorm.DB
}

func NewPincodeRepository(db *gorm.DB) PincodeRepository {
	return &pincodeRepository{db: db}
}

func (r *pincodeRepository) GetByCode(ctx context.Context, code string) (*models.Pincode, error) {
	var p models.Pincode
	if err := r.db.WithContext(ctx).Where("pincode = ?", code).First(&p).Error; err != nil {
		return nil, fmt.Errorf("get pincode %q: %w", code, translate(err))
	}
	return &p, nil
}

func (r *pincodeRepository) Search(ctx context.Context, query string, limit int) ([]models.Pincode, error) {
	var out []models.Pincode
	like := "%" + escapeLike(strings.ToLower(query)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(city) LIKE ? OR LOWER(state) LIKE ? OR pincode LIKE ?", like, like, like).
		Order("pincode asc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("search pincodes: %w", translate(err))
	}
	return out, nil
}

func (r *pincodeRepository) BulkCreate(ctx context.Context, pincodes []models.Pincode) error {
	if len(pincodes) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(pincodes, 500).Error; err != nil {
		return fmt.Errorf("import pincodes: %w", translate(err))
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
