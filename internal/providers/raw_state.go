package providers

import "strings"

// BoundingBox is a south/west/north/east rectangle used to scope state
// queries geographically.
type BoundingBox struct {
	LaMin float64 `json:"lamin"`
	LoMin float64 `json:"lomin"`
	LaMax float64 `json:"lamax"`
	LoMax float64 `json:"lomax"`
}

// Contains reports whether the given coordinates fall inside the box.
func (b *BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.LaMin && lat <= b.LaMax && lon >= b.LoMin && lon <= b.LoMax
}

// RawState is one normalized upstream state vector. The upstream wire
// format is a fixed-position array; RawState gives every index a name so
// a field-count change upstream cannot silently shift values.
type RawState struct {
	ICAO24         string   // 0
	Callsign       *string  // 1, whitespace-trimmed, nil when blank
	OriginCountry  *string  // 2
	TimePosition   *int64   // 3
	LastContact    *int64   // 4
	Longitude      *float64 // 5
	Latitude       *float64 // 6
	BaroAltitude   *float64 // 7
	OnGround       bool     // 8, defaults false
	Velocity       *float64 // 9
	TrueTrack      *float64 // 10
	VerticalRate   *float64 // 11
	Sensors        []int    // 12
	GeoAltitude    *float64 // 13
	Squawk         *string  // 14
	SPI            bool     // 15
	PositionSource *int     // 16
	Category       *int     // 17, present only with extended=1
}

// HasCoordinates reports whether both latitude and longitude are present.
// States without coordinates cannot be stored and are skipped during
// ingestion.
func (s *RawState) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// Altitude prefers barometric altitude and falls back to geometric.
func (s *RawState) Altitude() *float64 {
	if s.BaroAltitude != nil {
		return s.BaroAltitude
	}
	return s.GeoAltitude
}

// stateFromArray maps one positional upstream array into a RawState.
func stateFromArray(fields []interface{}) RawState {
	st := RawState{
		ICAO24:         stringValue(fields, 0),
		Callsign:       trimmedStringAt(fields, 1),
		OriginCountry:  stringAt(fields, 2),
		TimePosition:   int64At(fields, 3),
		LastContact:    int64At(fields, 4),
		Longitude:      floatAt(fields, 5),
		Latitude:       floatAt(fields, 6),
		BaroAltitude:   floatAt(fields, 7),
		OnGround:       boolAt(fields, 8),
		Velocity:       floatAt(fields, 9),
		TrueTrack:      floatAt(fields, 10),
		VerticalRate:   floatAt(fields, 11),
		Sensors:        intsAt(fields, 12),
		GeoAltitude:    floatAt(fields, 13),
		Squawk:         stringAt(fields, 14),
		SPI:            boolAt(fields, 15),
		PositionSource: intAt(fields, 16),
		Category:       intAt(fields, 17),
	}
	return st
}

func stringValue(fields []interface{}, i int) string {
	if s := stringAt(fields, i); s != nil {
		return *s
	}
	return ""
}

func stringAt(fields []interface{}, i int) *string {
	if i >= len(fields) {
		return nil
	}
	if s, ok := fields[i].(string); ok {
		return &s
	}
	return nil
}

// trimmedStringAt strips surrounding whitespace and treats blank as absent
func trimmedStringAt(fields []interface{}, i int) *string {
	s := stringAt(fields, i)
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func floatAt(fields []interface{}, i int) *float64 {
	if i >= len(fields) {
		return nil
	}
	if f, ok := fields[i].(float64); ok {
		return &f
	}
	return nil
}

func int64At(fields []interface{}, i int) *int64 {
	f := floatAt(fields, i)
	if f == nil {
		return nil
	}
	n := int64(*f)
	return &n
}

func intAt(fields []interface{}, i int) *int {
	f := floatAt(fields, i)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func boolAt(fields []interface{}, i int) bool {
	if i >= len(fields) {
		return false
	}
	if b, ok := fields[i].(bool); ok {
		return b
	}
	return false
}

func intsAt(fields []interface{}, i int) []int {
	if i >= len(fields) {
		return nil
	}
	raw, ok := fields[i].([]interface{})
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(float64); ok {
			out = append(out, int(f))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
