package courierrepo

import (
	"context"
	"errors"
	"fmt"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every column of the courier, zero values included, if the
// stored version still equals the version the aggregate was loaded with, and
// increments it. A stale aggregate gets errs.ErrVersionIsInvalid.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&CourierDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidError("courier",
			fmt.Errorf("courier %s is no longer at version %d", aggregate.ID(), aggregate.Version()))
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a courier by ID together with its delivery history.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	couriers, err := r.withHistory(ctx, []CourierDTO{dto})
	if err != nil {
		return nil, err
	}
	return couriers[0], nil
}

// GetAvailableInCity retrieves the available couriers based in city, oldest
// account first. The rows are locked FOR UPDATE until the surrounding
// transaction ends.
//
// Example:
//
//	uow.Begin(ctx)
//	candidates, err := uow.CourierRepository().GetAvailableInCity(ctx, "Mairinque")
//	if err != nil {
//		return fmt.Errorf("failed to load candidates: %w", err)
//	}
func (r *GormCourierRepository) GetAvailableInCity(ctx context.Context, city string) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("base_city = ? AND available = ?", city, true).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return r.withHistory(ctx, dtos)
}

// GetAllAvailable retrieves every available courier, oldest account first.
func (r *GormCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return r.withHistory(ctx, dtos)
}

// withHistory loads the delivery history of every courier in one query and
// restores the aggregates.
func (r *GormCourierRepository) withHistory(ctx context.Context, dtos []CourierDTO) ([]*courier.Courier, error) {
	couriers := make([]*courier.Courier, 0, len(dtos))
	if len(dtos) == 0 {
		return couriers, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}

	var rows []historyRow
	if err := r.db.WithContext(ctx).
		Table("deliveries").
		Select("id, courier_id, status, pickup_confirmed_at, delivered_at").
		Where("courier_id IN ?", ids).
		Order("created_at, id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byCourier := make(map[uuid.UUID][]historyRow, len(dtos))
	for _, row := range rows {
		byCourier[row.CourierID] = append(byCourier[row.CourierID], row)
	}

	for _, dto := range dtos {
		c, err := toDomain(dto, byCourier[dto.ID])
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}

	return couriers, nil
}
