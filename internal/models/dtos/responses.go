package dtos

import "time"

// APIResponse is the common envelope for all REST endpoints
type APIResponse struct {
	Status       string      `json:"status"`
	Message      string      `json:"message,omitempty"`
	ResponseTime string      `json:"response_time,omitempty"`
	Data         interface{} `json:"data,omitempty"`
}

// LiveFlight is the map-view projection of one airborne (or grounded)
// aircraft, served either straight from the upstream API or from the most
// recent cached position.
type LiveFlight struct {
	ICAO24        string     `json:"icao24"`
	Callsign      *string    `json:"callsign"`
	OriginCountry *string    `json:"origin_country"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	Altitude      *float64   `json:"altitude"`
	Velocity      *float64   `json:"velocity"`
	Heading       *float64   `json:"heading"`
	VerticalRate  *float64   `json:"vertical_rate"`
	OnGround      bool       `json:"on_ground"`
	// RecordedAt is set only for cached entries, so callers can show how
	// stale each sample is.
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// LiveFlightsResult carries the flights plus enough provenance for the UI
// to distinguish fresh data from stale cache.
type LiveFlightsResult struct {
	Flights   []LiveFlight `json:"flights"`
	Source    string       `json:"source"` // "live" or "cache"
	FetchedAt time.Time    `json:"fetched_at"`
	// OldestRecordedAt is set when serving from cache.
	OldestRecordedAt *time.Time `json:"oldest_recorded_at,omitempty"`
}

// Cached reports whether the result was served from the position store
// rather than the upstream API.
func (r *LiveFlightsResult) Cached() bool {
	return r.Source == "cache"
}

// RefreshResult is returned by the on-demand ingestion trigger. A failed
// upstream fetch yields Success=false with the message, never a panic or
// a bare 5xx.
type RefreshResult struct {
	Success          bool     `json:"success"`
	FlightsUpdated   int      `json:"flights_updated"`
	PositionsCreated int      `json:"positions_created"`
	Errors           []string `json:"errors"`
}

// FlightSearchResult is a paginated registry search result
type FlightSearchResult struct {
	TotalCount  int64       `json:"total_count"`
	HasNextPage bool        `json:"has_next_page"`
	Flights     interface{} `json:"flights"`
}
