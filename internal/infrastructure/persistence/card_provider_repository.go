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

// GormCardProviderRepository implements partner.CardProviderRepository using GORM
type GormCardProviderRepository struct {
	db *gorm.DB
}

// NewGormCardProviderRepository creates a new GormCardProviderRepository
func NewGormCardProviderRepository(db *gorm.DB) *GormCardProviderRepository {
	return &GormCardProviderRepository{db: db}
}

// FindByID finds a card provider by its ID
func (r *GormCardProviderRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CardProvider, error) {
	var model models.CardProviderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a card provider by ID within a tenant
func (r *GormCardProviderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.CardProvider, error) {
	var model models.CardProviderModel
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

// FindAllForTenant finds all card providers for a tenant with filtering
func (r *GormCardProviderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.CardProvider, error) {
	var providerModels []models.CardProviderModel

	query := r.db.WithContext(ctx).Model(&models.CardProviderModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&providerModels).Error; err != nil {
		return nil, err
	}
	providers := make([]partner.CardProvider, len(providerModels))
	for i, model := range providerModels {
		providers[i] = *model.ToDomain()
	}
	return providers, nil
}

// Save creates or updates a card provider
func (r *GormCardProviderRepository) Save(ctx context.Context, provider *partner.CardProvider) error {
	model := models.CardProviderModelFromDomain(provider)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant deletes a card provider for a tenant
func (r *GormCardProviderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CardProviderModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormCardProviderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR short_name ILIKE ?", searchPattern, searchPattern)
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
		sortField := ValidateSortField(filter.OrderBy, CardProviderSortFields, "")
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

// Ensure GormCardProviderRepository implements partner.CardProviderRepository
var _ partner.CardProviderRepository = (*GormCardProviderRepository)(nil)
