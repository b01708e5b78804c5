package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"greenride/internal/ride/domain"
	"greenride/internal/ride/service"
)

// CreateRouteRequest is the body for POST /routes.
type CreateRouteRequest struct {
	StartLocation  string  `json:"start_location"`
	Destination    string  `json:"destination"`
	DepartureTime  string  `json:"departure_time"`
	AvailableSeats int     `json:"available_seats"`
	CostPerSeat    float64 `json:"cost_per_seat"`
	DistanceKm     float64 `json:"distance_km"`
	DurationMin    float64 `json:"duration_min"`
}

// CreateRoute handles POST /routes.
func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}

	var req CreateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("create_route_decode_error", err)
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	departureTime, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "departure_time must be RFC3339")
		return
	}

	route, err := h.createRoute.Execute(r.Context(), service.CreateRouteCommand{
		DriverID:       c.UserID,
		StartLocation:  req.StartLocation,
		Destination:    req.Destination,
		DepartureTime:  departureTime,
		AvailableSeats: req.AvailableSeats,
		CostPerSeat:    req.CostPerSeat,
		DistanceKm:     req.DistanceKm,
		DurationMin:    req.DurationMin,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, route)
}

// ListRoutes handles GET /routes with an optional ?destination= filter.
func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.queries.ListRoutes(r.Context(), r.URL.Query().Get("destination"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

// GetRoute handles GET /routes/{route_id}.
func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	route, err := h.queries.GetRoute(r.Context(), r.PathValue("route_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

// GetPassengers handles GET /routes/{route_id}/passengers.
func (h *Handler) GetPassengers(w http.ResponseWriter, r *http.Request) {
	passengers, err := h.queries.GetPassengers(r.Context(), r.PathValue("route_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, passengers)
}

// BookedRoutes handles GET /routes/booked.
func (h *Handler) BookedRoutes(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}

	routeIDs, err := h.queries.GetBookedRouteIDs(r.Context(), c.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"route_ids": routeIDs})
}

// BookSeat handles POST /routes/{route_id}/book.
func (h *Handler) BookSeat(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}

	err := h.bookSeat.Execute(r.Context(), service.BookSeatCommand{
		RouteID: r.PathValue("route_id"),
		UserID:  c.UserID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Booking confirmed!"})
}

// CancelBooking handles POST /routes/{route_id}/cancel-booking.
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}

	result, err := h.cancelBooking.Execute(r.Context(), service.CancelBookingCommand{
		RouteID: r.PathValue("route_id"),
		UserID:  c.UserID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CancelRoute handles POST /routes/{route_id}/cancel.
func (h *Handler) CancelRoute(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}

	result, err := h.cancelRoute.Execute(r.Context(), service.CancelRouteCommand{
		RouteID:  r.PathValue("route_id"),
		DriverID: c.UserID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// StartRide handles POST /routes/{route_id}/start.
func (h *Handler) StartRide(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.StatusInProgress)
}

// FinishRide handles POST /routes/{route_id}/finish.
func (h *Handler) FinishRide(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.StatusCompleted)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, status domain.RouteStatus) {
	c, ok := claims(w, r)
	if !ok {
		return
	}

	err := h.updateStatus.Execute(r.Context(), service.UpdateRideStatusCommand{
		RouteID:  r.PathValue("route_id"),
		DriverID: c.UserID,
		Status:   status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status.String()})
}
