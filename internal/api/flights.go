package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"skywatch/tracker/internal/db/repositories"
	"skywatch/tracker/internal/providers"
	"skywatch/tracker/internal/services"
)

// parseBoundingBox reads lamin/lomin/lamax/lomax query parameters. All four
// must be present to form a box; anything less means no box filter.
func parseBoundingBox(r *http.Request) (*providers.BoundingBox, error) {
	q := r.URL.Query()
	raw := []string{q.Get("lamin"), q.Get("lomin"), q.Get("lamax"), q.Get("lomax")}

	present := 0
	for _, v := range raw {
		if v != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present < 4 {
		return nil, strconv.ErrSyntax
	}

	vals := make([]float64, 4)
	for i, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = f
	}
	return &providers.BoundingBox{
		LaMin: vals[0], LoMin: vals[1], LaMax: vals[2], LoMax: vals[3],
	}, nil
}

func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// LiveFlightsHandler handles GET /api/v1/flights/live
func LiveFlightsHandler(liveSvc *services.LiveFlightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		init := time.Now()

		box, err := parseBoundingBox(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, init, "Invalid bounding box: lamin, lomin, lamax and lomax must all be valid numbers")
			return
		}

		result, err := liveSvc.LiveFlights(r.Context(), box)
		if err != nil {
			if services.IsLiveDataUnavailable(err) {
				respondWithError(w, http.StatusServiceUnavailable, init, err.Error())
				return
			}
			if providers.IsNotFound(err) {
				respondWithError(w, http.StatusBadGateway, init, err.Error())
				return
			}
			respondWithError(w, http.StatusInternalServerError, init, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, init, result)
	}
}

// FlightSearchHandler handles GET /api/v1/flights
func FlightSearchHandler(flightSvc *services.FlightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		init := time.Now()

		box, err := parseBoundingBox(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, init, "Invalid bounding box: lamin, lomin, lamax and lomax must all be valid numbers")
			return
		}

		q := repositories.FlightSearch{
			Callsign: r.URL.Query().Get("callsign"),
			Country:  r.URL.Query().Get("country"),
			Box:      box,
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				q.Limit = n
			}
		}
		if raw := r.URL.Query().Get("offset"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
				q.Offset = n
			}
		}

		result, err := flightSvc.Search(r.Context(), q)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, init, "Failed to search flights")
			return
		}
		respondWithSuccess(w, http.StatusOK, init, result)
	}
}

// ActiveFlightsHandler handles GET /api/v1/flights/active
func ActiveFlightsHandler(flightSvc *services.FlightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		init := time.Now()

		flights, err := flightSvc.Active(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, init, "Failed to load active flights")
			return
		}
		respondWithSuccess(w, http.StatusOK, init, flights)
	}
}

// FlightDetailHandler handles GET /api/v1/flights/{icao24}
func FlightDetailHandler(flightSvc *services.FlightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		init := time.Now()
		icao24 := chi.URLParam(r, "icao24")

		flight, err := flightSvc.FindByICAO24(r.Context(), icao24)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, init, "Failed to look up flight")
			return
		}
		if flight == nil {
			respondWithError(w, http.StatusNotFound, init, "Flight not found")
			return
		}
		respondWithSuccess(w, http.StatusOK, init, flight)
	}
}

// FlightHistoryHandler handles GET /api/v1/flights/{icao24}/history
func FlightHistoryHandler(flightSvc *services.FlightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		init := time.Now()
		icao24 := chi.URLParam(r, "icao24")

		start, err := parseTimeParam(r, "start")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, init, "Invalid start: must be RFC3339")
			return
		}
		end, err := parseTimeParam(r, "end")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, init, "Invalid end: must be RFC3339")
			return
		}

		flight, track, err := flightSvc.History(r.Context(), icao24, start, end)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, init, "Failed to load flight history")
			return
		}
		if flight == nil {
			respondWithError(w, http.StatusNotFound, init, "Flight not found")
			return
		}

		respondWithSuccess(w, http.StatusOK, init, map[string]interface{}{
			"flight":    flight,
			"positions": track,
		})
	}
}
