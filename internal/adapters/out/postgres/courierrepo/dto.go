// Package courierrepo persists courier aggregates in PostgreSQL.
// The location trace is stored as a JSON column; the delivery history is not
// stored with the courier but read back from the deliveries table. Rows carry
// a version column; updates are compare-and-swap on it.
package courierrepo

import (
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
type CourierDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name            string          `gorm:"type:varchar(255);not null"`
	BaseCity        string          `gorm:"type:varchar(100);not null;index:idx_couriers_city_available"`
	Available       bool            `gorm:"not null;index:idx_couriers_city_available"`
	Location        LocationDTO     `gorm:"embedded;embeddedPrefix:location_"`
	LocationHistory []TrackPointDTO `gorm:"type:jsonb;serializer:json"`
	RankingScore    int             `gorm:"type:int;not null"`
	RiskLevel       string          `gorm:"type:varchar(16);not null;default:low"`
	WalletBalance   float64         `gorm:"type:numeric(12,2);not null"`
	Names           IdentityDTO     `gorm:"embedded;embeddedPrefix:identity_"`
	LastVerifiedAt  *time.Time
	CreatedAt       time.Time `gorm:"not null"`
	Version         int64     `gorm:"not null;default:0"`
}

// TableName specifies the database table name for courier entities.
func (CourierDTO) TableName() string {
	return "couriers"
}

// LocationDTO is the current coordinate, both columns null when unknown.
type LocationDTO struct {
	Lat *float64 `gorm:"type:double precision"`
	Lng *float64 `gorm:"type:double precision"`
}

// TrackPointDTO is one element of the JSON location trace.
type TrackPointDTO struct {
	Lat float64   `json:"lat"`
	Lng float64   `json:"lng"`
	At  time.Time `json:"at"`
}

// IdentityDTO holds the names compared by identity consistency checks.
type IdentityDTO struct {
	OAuthName      string `gorm:"column:oauth_name;type:varchar(255)"`
	DocumentName   string `gorm:"type:varchar(255)"`
	BankHolderName string `gorm:"type:varchar(255)"`
}

// historyRow is the projection of the deliveries table that rebuilds a
// courier's delivery history.
type historyRow struct {
	ID                uuid.UUID
	CourierID         uuid.UUID
	Status            string
	PickupConfirmedAt *time.Time
	DeliveredAt       *time.Time
}

func fromDomain(c *courier.Courier) CourierDTO {
	var location LocationDTO
	if p := c.Location(); p != nil {
		lat, lng := p.Lat(), p.Lng()
		location = LocationDTO{Lat: &lat, Lng: &lng}
	}

	track := make([]TrackPointDTO, 0, len(c.LocationHistory()))
	for _, tp := range c.LocationHistory() {
		track = append(track, TrackPointDTO{
			Lat: tp.Point().Lat(),
			Lng: tp.Point().Lng(),
			At:  tp.At(),
		})
	}

	names := c.Names()

	return CourierDTO{
		ID:              c.ID().Bytes(),
		Name:            c.Name(),
		BaseCity:        c.BaseCity(),
		Available:       c.IsAvailable(),
		Location:        location,
		LocationHistory: track,
		RankingScore:    c.RankingScore(),
		RiskLevel:       string(c.RiskLevel()),
		WalletBalance:   c.WalletBalance(),
		Names: IdentityDTO{
			OAuthName:      names.OAuth,
			DocumentName:   names.Document,
			BankHolderName: names.BankHolder,
		},
		LastVerifiedAt: c.LastVerifiedAt(),
		CreatedAt:      c.CreatedAt(),
		Version:        c.Version(),
	}
}

func toDomain(dto CourierDTO, history []historyRow) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Location.Lat != nil && dto.Location.Lng != nil {
		p, pointErr := kernel.NewGeoPoint(*dto.Location.Lat, *dto.Location.Lng)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &p
	}

	track := make([]kernel.TrackPoint, 0, len(dto.LocationHistory))
	for _, tp := range dto.LocationHistory {
		p, pointErr := kernel.NewTrackPoint(tp.Lat, tp.Lng, tp.At)
		if pointErr != nil {
			return nil, pointErr
		}
		track = append(track, p)
	}

	snapshots := make([]courier.DeliverySnapshot, 0, len(history))
	for _, row := range history {
		snapshot, snapErr := snapshotToDomain(row)
		if snapErr != nil {
			return nil, snapErr
		}
		snapshots = append(snapshots, snapshot)
	}

	return courier.RestoreCourier(courier.State{
		ID:              id,
		Name:            dto.Name,
		BaseCity:        dto.BaseCity,
		Location:        location,
		Available:       dto.Available,
		RankingScore:    dto.RankingScore,
		DeliveryHistory: snapshots,
		LocationHistory: track,
		CreatedAt:       dto.CreatedAt,
		LastVerifiedAt:  dto.LastVerifiedAt,
		RiskLevel:       courier.RiskLevel(dto.RiskLevel),
		WalletBalance:   dto.WalletBalance,
		Names: courier.IdentityNames{
			OAuth:      dto.Names.OAuthName,
			Document:   dto.Names.DocumentName,
			BankHolder: dto.Names.BankHolderName,
		},
		Version: dto.Version,
	})
}

func snapshotToDomain(row historyRow) (courier.DeliverySnapshot, error) {
	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return courier.DeliverySnapshot{}, err
	}

	status, err := delivery.ParseStatus(row.Status)
	if err != nil {
		return courier.DeliverySnapshot{}, err
	}

	return courier.DeliverySnapshot{
		DeliveryID:        id,
		Status:            status,
		PickupConfirmedAt: row.PickupConfirmedAt,
		DeliveredAt:       row.DeliveredAt,
	}, nil
}
