package gorm

import (
	"fmt"
	"time"

	gormlib "gorm.io/gorm"
)

// FlightPosition is one immutable observation of an aircraft. Rows are
// appended during ingestion and removed only by the retention sweeper.
type FlightPosition struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	FlightID     uint      `gorm:"column:flight_id;not null;index;index:idx_positions_flight_recorded,priority:1" json:"flight_id"`
	Latitude     float64   `gorm:"column:latitude;type:numeric(10,7);not null" json:"latitude"`
	Longitude    float64   `gorm:"column:longitude;type:numeric(10,7);not null" json:"longitude"`
	Altitude     *float64  `gorm:"column:altitude;type:numeric(10,2)" json:"altitude"`
	Velocity     *float64  `gorm:"column:velocity;type:numeric(8,2)" json:"velocity"`
	Heading      *float64  `gorm:"column:heading;type:numeric(6,2)" json:"heading"`
	VerticalRate *float64  `gorm:"column:vertical_rate;type:numeric(8,2)" json:"vertical_rate"`
	OnGround     bool      `gorm:"column:on_ground;default:false" json:"on_ground"`
	RecordedAt   time.Time `gorm:"column:recorded_at;not null;index;index:idx_positions_flight_recorded,priority:2" json:"recorded_at"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	Flight *Flight `gorm:"foreignKey:FlightID" json:"-"`
}

// TableName specifies the table name for GORM
func (FlightPosition) TableName() string {
	return "flight_positions"
}

// Validate enforces the store-level invariants: coordinates present and
// within range (bounds inclusive), recorded-at present.
func (p *FlightPosition) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", p.Longitude)
	}
	if p.RecordedAt.IsZero() {
		return fmt.Errorf("recorded_at must be set")
	}
	return nil
}

// BeforeCreate rejects invalid samples before they reach the store.
func (p *FlightPosition) BeforeCreate(tx *gormlib.DB) error {
	return p.Validate()
}
