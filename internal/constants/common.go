package constants

type APIStatus string

const (
	APIStatusOk    APIStatus = "success"
	APIStatusError APIStatus = "error"
)

// Cache key prefixes
const (
	CachePrefixLiveFlights = "live_flights"
)

// Job names used in logs and metrics
const (
	JobFlightFetch = "flight_fetch"
	JobStatistics  = "statistics_aggregator"
	JobRetention   = "data_retention"
)

// Live flight result sources
const (
	LiveSourceUpstream = "live"
	LiveSourceCache    = "cache"
)
