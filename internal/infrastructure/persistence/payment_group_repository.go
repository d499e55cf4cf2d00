package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/payment"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentGroupRepository implements payment.GroupRepository using GORM
type GormPaymentGroupRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormPaymentGroupRepository creates a new GormPaymentGroupRepository
func NewGormPaymentGroupRepository(db *gorm.DB) *GormPaymentGroupRepository {
	return &GormPaymentGroupRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormPaymentGroupRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a payment group by its ID
func (r *GormPaymentGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentGroup, error) {
	var model models.PaymentGroupModel
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a payment group by ID within a tenant
func (r *GormPaymentGroupRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payment.PaymentGroup, error) {
	var model models.PaymentGroupModel
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all payment groups for a tenant with filtering
func (r *GormPaymentGroupRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]payment.PaymentGroup, error) {
	var groupModels []models.PaymentGroupModel

	query := r.db.WithContext(ctx).Model(&models.PaymentGroupModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Preload("Payments").Find(&groupModels).Error; err != nil {
		return nil, err
	}
	groups := make([]payment.PaymentGroup, len(groupModels))
	for i, model := range groupModels {
		groups[i] = *model.ToDomain()
	}
	return groups, nil
}

// FindByOrder finds payment groups attached to an order
func (r *GormPaymentGroupRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]payment.PaymentGroup, error) {
	var groupModels []models.PaymentGroupModel
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at ASC").
		Find(&groupModels).Error; err != nil {
		return nil, err
	}
	groups := make([]payment.PaymentGroup, len(groupModels))
	for i, model := range groupModels {
		groups[i] = *model.ToDomain()
	}
	return groups, nil
}

// CountForTenant counts payment groups for a tenant with optional filters
func (r *GormPaymentGroupRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PaymentGroupModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a payment group
func (r *GormPaymentGroupRepository) Save(ctx context.Context, group *payment.PaymentGroup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.PaymentGroupModelFromDomain(group)

		if err := tx.Omit("Payments").Save(model).Error; err != nil {
			return err
		}

		return r.savePayments(tx, group)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPaymentGroupRepository) SaveWithLock(ctx context.Context, group *payment.PaymentGroup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(tx, group)
	})
}

// SaveWithLockAndEvents saves with optimistic locking and persists domain events
// to the outbox table within the same transaction.
func (r *GormPaymentGroupRepository) SaveWithLockAndEvents(ctx context.Context, group *payment.PaymentGroup, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(tx, group); err != nil {
			return err
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
}

// saveWithLockTx performs the version-checked update inside an open transaction
func (r *GormPaymentGroupRepository) saveWithLockTx(tx *gorm.DB, group *payment.PaymentGroup) error {
	var currentVersion int
	if err := tx.Model(&models.PaymentGroupModel{}).
		Where("id = ?", group.ID).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	if currentVersion != group.Version {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The payment group has been modified by another user")
	}

	group.Version++
	group.UpdatedAt = time.Now()

	result := tx.Model(&models.PaymentGroupModel{}).
		Where("id = ? AND version = ?", group.ID, currentVersion).
		Updates(map[string]interface{}{
			"description":   group.Description,
			"client_id":     group.ClientID,
			"order_id":      group.OrderID,
			"total_value":   group.TotalValue.Amount(),
			"status":        group.Status,
			"confirmed_at":  group.ConfirmedAt,
			"paid_at":       group.PaidAt,
			"cancelled_at":  group.CancelledAt,
			"cancel_reason": group.CancelReason,
			"version":       group.Version,
			"updated_at":    group.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The payment group has been modified by another user")
	}

	return r.savePayments(tx, group)
}

// savePayments reconciles persisted payment rows with the aggregate's payments
func (r *GormPaymentGroupRepository) savePayments(tx *gorm.DB, group *payment.PaymentGroup) error {
	if group.ID == uuid.Nil {
		return nil
	}

	currentIDs := make([]uuid.UUID, len(group.Payments))
	for i, p := range group.Payments {
		currentIDs[i] = p.ID
	}

	// Delete payments not in the current list (preview regeneration)
	if len(currentIDs) > 0 {
		if err := tx.Where("group_id = ? AND id NOT IN ?", group.ID, currentIDs).
			Delete(&models.PaymentModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("group_id = ?", group.ID).
			Delete(&models.PaymentModel{}).Error; err != nil {
			return err
		}
	}

	for i := range group.Payments {
		group.Payments[i].GroupID = group.ID
		paymentModel := models.PaymentModelFromDomain(&group.Payments[i])
		if err := tx.Save(paymentModel).Error; err != nil {
			return err
		}
	}

	return nil
}

// DeleteForTenant deletes a payment group for a tenant
func (r *GormPaymentGroupRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.PaymentGroupModel
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("group_id = ?", id).Delete(&models.PaymentModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.PaymentGroupModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormPaymentGroupRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, PaymentGroupSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			query = query.Order("created_at DESC")
		}
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPaymentGroupRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormPaymentGroupRepository implements payment.GroupRepository
var _ payment.GroupRepository = (*GormPaymentGroupRepository)(nil)
