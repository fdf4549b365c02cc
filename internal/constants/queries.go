package constants

const (
	// LatestPositionPerFlight selects, per flight, the single most recent
	// position recorded at or after the given instant. Placeholders are
	// rebound per dialect by the ORM.
	LatestPositionPerFlight = `
	SELECT flight_positions.* FROM flight_positions
	INNER JOIN (
		SELECT flight_id, MAX(recorded_at) AS max_recorded_at
		FROM flight_positions
		WHERE recorded_at >= ?
		GROUP BY flight_id
	) latest ON latest.flight_id = flight_positions.flight_id
	AND latest.max_recorded_at = flight_positions.recorded_at
	`

	// FlightIDsWithLatestPositionInBox narrows flights to those whose most
	// recent position falls inside a bounding box.
	FlightIDsWithLatestPositionInBox = `
	SELECT flight_positions.flight_id FROM flight_positions
	INNER JOIN (
		SELECT flight_id, MAX(recorded_at) AS max_recorded_at
		FROM flight_positions
		GROUP BY flight_id
	) latest ON latest.flight_id = flight_positions.flight_id
	AND latest.max_recorded_at = flight_positions.recorded_at
	WHERE flight_positions.latitude BETWEEN ? AND ?
	AND flight_positions.longitude BETWEEN ? AND ?
	`

	// CountryBreakdownForWindow counts the distinct flights observed in a
	// time window, grouped by origin country.
	CountryBreakdownForWindow = `
	SELECT flights.origin_country AS country, COUNT(*) AS total
	FROM flights
	WHERE flights.id IN (
		SELECT DISTINCT flight_id FROM flight_positions
		WHERE recorded_at >= ? AND recorded_at < ?
	)
	GROUP BY flights.origin_country
	`
)
