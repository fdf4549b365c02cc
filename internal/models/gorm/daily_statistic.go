package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CountryCounts maps origin country to the number of distinct flights
// observed that day. Stored as a JSON column.
type CountryCounts map[string]int

// Value implements driver.Valuer
func (c CountryCounts) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *CountryCounts) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into CountryCounts", value)
	}
}

// DailyStatistic is the per-calendar-date rollup. Exactly one row exists
// per date; re-running the aggregator overwrites it.
type DailyStatistic struct {
	ID               uint          `gorm:"column:id;primaryKey" json:"id"`
	Date             time.Time     `gorm:"column:date;type:date;not null;uniqueIndex" json:"date"`
	TotalFlights     int           `gorm:"column:total_flights;default:0" json:"total_flights"`
	UniqueAircraft   int           `gorm:"column:unique_aircraft;default:0" json:"unique_aircraft"`
	FlightsByCountry CountryCounts `gorm:"column:flights_by_country;type:json" json:"flights_by_country"`
	AvgAltitude      *float64      `gorm:"column:avg_altitude;type:numeric(10,2)" json:"avg_altitude"`
	CreatedAt        time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (DailyStatistic) TableName() string {
	return "daily_statistics"
}
