package gorm

import (
	"time"
)

// Flight is the identity record for one aircraft, keyed by its ICAO24
// transponder code. Rows are created on first observation and updated on
// every subsequent one; they are never deleted by normal operation.
type Flight struct {
	ID            uint       `gorm:"column:id;primaryKey" json:"id"`
	ICAO24        string     `gorm:"column:icao24;type:varchar(24);not null;uniqueIndex" json:"icao24"`
	Callsign      *string    `gorm:"column:callsign;type:varchar(16);index" json:"callsign"`
	OriginCountry *string    `gorm:"column:origin_country;type:varchar(100);index" json:"origin_country"`
	FirstSeenAt   *time.Time `gorm:"column:first_seen_at" json:"first_seen_at"`
	LastSeenAt    *time.Time `gorm:"column:last_seen_at;index" json:"last_seen_at"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at" json:"updated_at"`

	Positions []FlightPosition `gorm:"foreignKey:FlightID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Flight) TableName() string {
	return "flights"
}
