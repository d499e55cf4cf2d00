package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTransporterRepository implements partner.TransporterRepository using GORM
type GormTransporterRepository struct {
	db *gorm.DB
}

// NewGormTransporterRepository creates a new GormTransporterRepository
func NewGormTransporterRepository(db *gorm.DB) *GormTransporterRepository {
	return &GormTransporterRepository{db: db}
}

// FindByID finds a transporter by its ID
func (r *GormTransporterRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Transporter, error) {
	var model models.TransporterModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a transporter by ID within a tenant
func (r *GormTransporterRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Transporter, error) {
	var model models.TransporterModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all transporters for a tenant with filtering
func (r *GormTransporterRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Transporter, error) {
	var transporterModels []models.TransporterModel

	query := r.db.WithContext(ctx).Model(&models.TransporterModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&transporterModels).Error; err != nil {
		return nil, err
	}
	transporters := make([]partner.Transporter, len(transporterModels))
	for i, model := range transporterModels {
		transporters[i] = *model.ToDomain()
	}
	return transporters, nil
}

// Save creates or updates a transporter
func (r *GormTransporterRepository) Save(ctx context.Context, transporter *partner.Transporter) error {
	model := models.TransporterModelFromDomain(transporter)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant deletes a transporter for a tenant
func (r *GormTransporterRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TransporterModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormTransporterRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR document ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, TransporterSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			query = query.Order("name ASC")
		}
	} else {
		query = query.Order("name ASC")
	}

	return query
}

// Ensure GormTransporterRepository implements partner.TransporterRepository
var _ partner.TransporterRepository = (*GormTransporterRepository)(nil)
