package services

import (
	"context"
	"fmt"
	"time"

	"skywatch/tracker/internal/common"
	"skywatch/tracker/internal/constants"
	"skywatch/tracker/internal/db/repositories"
	"skywatch/tracker/internal/logging"
	"skywatch/tracker/internal/models/dtos"
	gormModels "skywatch/tracker/internal/models/gorm"
	"skywatch/tracker/internal/providers"
)

// LiveFlightsService answers "what is flying now". The upstream API is the
// primary source; when it is rate limited or otherwise failing, the most
// recent stored position per flight inside the freshness window is served
// instead, clearly marked as cached.
type LiveFlightsService struct {
	provider  providers.StateProvider
	positions *repositories.PositionRepository
	cache     common.CacheInterface

	// fallbackWindow is the maximum age of a cached position still
	// considered servable.
	fallbackWindow time.Duration

	// memoTTL is how long a successful upstream response is reused before
	// asking the API again.
	memoTTL time.Duration
}

// NewLiveFlightsService creates a live flights service. cache may be nil
// to disable memoization.
func NewLiveFlightsService(
	provider providers.StateProvider,
	positions *repositories.PositionRepository,
	cache common.CacheInterface,
	fallbackWindow time.Duration,
	memoTTL time.Duration,
) *LiveFlightsService {
	return &LiveFlightsService{
		provider:       provider,
		positions:      positions,
		cache:          cache,
		fallbackWindow: fallbackWindow,
		memoTTL:        memoTTL,
	}
}

// LiveFlights returns current flight positions, falling back to cached
// positions on upstream failure. A total failure (upstream down, nothing
// cached inside the window) is a LiveDataUnavailableError, never an empty
// success.
func (s *LiveFlightsService) LiveFlights(ctx context.Context, box *providers.BoundingBox) (*dtos.LiveFlightsResult, error) {
	cacheKey := liveFlightsCacheKey(box)
	if s.cache != nil {
		if v, found := s.cache.Get(cacheKey); found {
			if result, ok := v.(*dtos.LiveFlightsResult); ok {
				return result, nil
			}
		}
	}

	states, err := s.provider.FetchStates(ctx, box)
	if err == nil {
		result := resultFromStates(states)
		if s.cache != nil {
			s.cache.Set(cacheKey, result, s.memoTTL)
		}
		return result, nil
	}

	// Not-found means a broken endpoint configuration, not a transient
	// outage; cached data would only mask it.
	if providers.IsNotFound(err) || !providers.IsProviderError(err) {
		return nil, err
	}

	logging.Warn("Upstream state fetch failed, serving cached positions",
		"error", err.Error(),
		"window", s.fallbackWindow.String(),
	)
	return s.cachedLiveFlights(ctx, box, err)
}

// cachedLiveFlights is the read-only fallback path
func (s *LiveFlightsService) cachedLiveFlights(ctx context.Context, box *providers.BoundingBox, upstreamErr error) (*dtos.LiveFlightsResult, error) {
	since := time.Now().Add(-s.fallbackWindow)

	positions, err := s.positions.LatestWithinWindow(ctx, since, box)
	if err != nil {
		return nil, &LiveDataUnavailableError{
			Reason:      upstreamErr.Error(),
			FallbackErr: err,
		}
	}
	if len(positions) == 0 {
		return nil, &LiveDataUnavailableError{Reason: upstreamErr.Error()}
	}

	flights := make([]dtos.LiveFlight, 0, len(positions))
	var oldest *time.Time
	for i := range positions {
		p := &positions[i]
		flights = append(flights, liveFlightFromPosition(p))
		if oldest == nil || p.RecordedAt.Before(*oldest) {
			t := p.RecordedAt
			oldest = &t
		}
	}

	return &dtos.LiveFlightsResult{
		Flights:          flights,
		Source:           constants.LiveSourceCache,
		FetchedAt:        time.Now().UTC(),
		OldestRecordedAt: oldest,
	}, nil
}

func resultFromStates(states []providers.RawState) *dtos.LiveFlightsResult {
	flights := make([]dtos.LiveFlight, 0, len(states))
	for i := range states {
		st := &states[i]
		if !st.HasCoordinates() {
			continue
		}
		flights = append(flights, dtos.LiveFlight{
			ICAO24:        st.ICAO24,
			Callsign:      st.Callsign,
			OriginCountry: st.OriginCountry,
			Latitude:      *st.Latitude,
			Longitude:     *st.Longitude,
			Altitude:      st.Altitude(),
			Velocity:      st.Velocity,
			Heading:       st.TrueTrack,
			VerticalRate:  st.VerticalRate,
			OnGround:      st.OnGround,
		})
	}
	return &dtos.LiveFlightsResult{
		Flights:   flights,
		Source:    constants.LiveSourceUpstream,
		FetchedAt: time.Now().UTC(),
	}
}

func liveFlightFromPosition(p *gormModels.FlightPosition) dtos.LiveFlight {
	lf := dtos.LiveFlight{
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Altitude:     p.Altitude,
		Velocity:     p.Velocity,
		Heading:      p.Heading,
		VerticalRate: p.VerticalRate,
		OnGround:     p.OnGround,
	}
	t := p.RecordedAt
	lf.RecordedAt = &t
	if p.Flight != nil {
		lf.ICAO24 = p.Flight.ICAO24
		lf.Callsign = p.Flight.Callsign
		lf.OriginCountry = p.Flight.OriginCountry
	}
	return lf
}

func liveFlightsCacheKey(box *providers.BoundingBox) string {
	if box == nil {
		return constants.CachePrefixLiveFlights + ":all"
	}
	return fmt.Sprintf("%s:%g:%g:%g:%g",
		constants.CachePrefixLiveFlights, box.LaMin, box.LoMin, box.LaMax, box.LoMax)
}
