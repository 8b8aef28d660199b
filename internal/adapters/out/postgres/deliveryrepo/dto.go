// Package deliveryrepo persists delivery aggregates in PostgreSQL.
// Rows carry a version column; updates are compare-and-swap on it.
package deliveryrepo

import (
	"time"

	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for persisting delivery aggregates.
type DeliveryDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ShopID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	CourierID         *uuid.UUID `gorm:"type:uuid;index"`
	Pickup            AddressDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Drop              AddressDTO `gorm:"embedded;embeddedPrefix:drop_"`
	Priority          int        `gorm:"type:smallint;not null"`
	Pricing           PricingDTO `gorm:"embedded;embeddedPrefix:price_"`
	Status            string     `gorm:"type:varchar(32);not null;index"`
	Pin               PinDTO     `gorm:"embedded;embeddedPrefix:pin_"`
	Version           int64      `gorm:"not null;default:0"`
	CreatedAt         time.Time  `gorm:"not null;index"`
	MatchedAt         *time.Time
	PickupConfirmedAt *time.Time
	InTransitAt       *time.Time
	WaitingAt         *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	ClientNotFoundAt  *time.Time
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// AddressDTO is an embedded pickup or drop-off address.
type AddressDTO struct {
	Lat  float64 `gorm:"type:double precision;not null"`
	Lng  float64 `gorm:"type:double precision;not null"`
	City string  `gorm:"type:varchar(100);not null"`
}

// PricingDTO is the embedded fare breakdown.
type PricingDTO struct {
	DistanceKm     float64 `gorm:"type:numeric(10,2)"`
	Base           float64 `gorm:"type:numeric(10,2)"`
	Additional     float64 `gorm:"type:numeric(10,2)"`
	Total          float64 `gorm:"type:numeric(10,2)"`
	PlatformFee    float64 `gorm:"type:numeric(10,2)"`
	CourierEarning float64 `gorm:"type:numeric(10,2)"`
}

// PinDTO is the embedded handoff PIN, Code is null until a courier is matched.
type PinDTO struct {
	Code        *string `gorm:"type:varchar(8)"`
	Attempts    int     `gorm:"not null;default:0"`
	Blocked     bool    `gorm:"not null;default:false"`
	Validated   bool    `gorm:"not null;default:false"`
	ValidatedAt *time.Time
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	var courierID *uuid.UUID
	if id := d.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	var pin PinDTO
	if p := d.Pin(); p != nil {
		code := p.FullCode()
		pin = PinDTO{
			Code:        &code,
			Attempts:    p.Attempts(),
			Blocked:     p.IsBlocked(),
			Validated:   p.IsValidated(),
			ValidatedAt: p.ValidatedAt(),
		}
	}

	pricing := d.Pricing()
	ts := d.Timestamps()

	return DeliveryDTO{
		ID:        d.ID().Bytes(),
		ShopID:    d.ShopID().Bytes(),
		CourierID: courierID,
		Pickup:    addressFromDomain(d.Pickup()),
		Drop:      addressFromDomain(d.Drop()),
		Priority:  d.Priority(),
		Pricing: PricingDTO{
			DistanceKm:     pricing.DistanceKm,
			Base:           pricing.BasePrice,
			Additional:     pricing.AdditionalPrice,
			Total:          pricing.TotalPrice,
			PlatformFee:    pricing.PlatformFee,
			CourierEarning: pricing.CourierEarning,
		},
		Status:            d.Status().String(),
		Pin:               pin,
		Version:           d.Version(),
		CreatedAt:         ts.CreatedAt,
		MatchedAt:         ts.MatchedAt,
		PickupConfirmedAt: ts.PickupConfirmedAt,
		InTransitAt:       ts.InTransitAt,
		WaitingAt:         ts.WaitingAt,
		DeliveredAt:       ts.DeliveredAt,
		CancelledAt:       ts.CancelledAt,
		ClientNotFoundAt:  ts.ClientNotFoundAt,
	}
}

func addressFromDomain(a delivery.Address) AddressDTO {
	return AddressDTO{Lat: a.Point.Lat(), Lng: a.Point.Lng(), City: a.City}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	pickup, err := addressToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}

	drop, err := addressToDomain(dto.Drop)
	if err != nil {
		return nil, err
	}

	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var pin *delivery.HandoffPin
	if dto.Pin.Code != nil {
		restored, pinErr := delivery.RestoreHandoffPin(
			*dto.Pin.Code,
			dto.Pin.Attempts,
			dto.Pin.Blocked,
			dto.Pin.Validated,
			dto.Pin.ValidatedAt,
		)
		if pinErr != nil {
			return nil, pinErr
		}
		pin = &restored
	}

	return delivery.RestoreDelivery(delivery.State{
		ID:        id,
		ShopID:    shopID,
		CourierID: courierID,
		Pickup:    pickup,
		Drop:      drop,
		Priority:  dto.Priority,
		Pricing: delivery.Pricing{
			DistanceKm:      dto.Pricing.DistanceKm,
			BasePrice:       dto.Pricing.Base,
			AdditionalPrice: dto.Pricing.Additional,
			TotalPrice:      dto.Pricing.Total,
			PlatformFee:     dto.Pricing.PlatformFee,
			CourierEarning:  dto.Pricing.CourierEarning,
		},
		Status: status,
		Timestamps: delivery.Timestamps{
			CreatedAt:         dto.CreatedAt,
			MatchedAt:         dto.MatchedAt,
			PickupConfirmedAt: dto.PickupConfirmedAt,
			InTransitAt:       dto.InTransitAt,
			WaitingAt:         dto.WaitingAt,
			DeliveredAt:       dto.DeliveredAt,
			CancelledAt:       dto.CancelledAt,
			ClientNotFoundAt:  dto.ClientNotFoundAt,
		},
		Pin:     pin,
		Version: dto.Version,
	})
}

func addressToDomain(dto AddressDTO) (delivery.Address, error) {
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return delivery.Address{}, err
	}
	return delivery.Address{Point: point, City: dto.City}, nil
}
