package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"greenride/internal/ride/domain"
	"greenride/internal/ride/service"
	"greenride/pkg/auth"
	"greenride/pkg/logger"
)

// Handler provides the HTTP endpoints for the ride service.
type Handler struct {
	createRoute   *service.CreateRouteUseCase
	bookSeat      *service.BookSeatUseCase
	cancelBooking *service.CancelBookingUseCase
	cancelRoute   *service.CancelRouteUseCase
	updateStatus  *service.UpdateRideStatusUseCase
	queries       *service.QueryService
	authUC        *service.AuthUseCase
	jwtManager    *auth.JWTManager
	log           logger.Logger
}

// NewHandler creates a new Handler.
func NewHandler(
	createRoute *service.CreateRouteUseCase,
	bookSeat *service.BookSeatUseCase,
	cancelBooking *service.CancelBookingUseCase,
	cancelRoute *service.CancelRouteUseCase,
	updateStatus *service.UpdateRideStatusUseCase,
	queries *service.QueryService,
	authUC *service.AuthUseCase,
	jwtManager *auth.JWTManager,
	log logger.Logger,
) *Handler {
	return &Handler{
		createRoute:   createRoute,
		bookSeat:      bookSeat,
		cancelBooking: cancelBooking,
		cancelRoute:   cancelRoute,
		updateStatus:  updateStatus,
		queries:       queries,
		authUC:        authUC,
		jwtManager:    jwtManager,
		log:           log,
	}
}

// RegisterRoutes centralizes route definitions on the standard mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	authed := h.jwtManager.AuthMiddleware

	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /login", h.Login)

	mux.Handle("GET /routes", authed(http.HandlerFunc(h.ListRoutes)))
	mux.Handle("POST /routes", authed(http.HandlerFunc(h.CreateRoute)))
	mux.Handle("GET /routes/booked", authed(http.HandlerFunc(h.BookedRoutes)))
	mux.Handle("GET /routes/{route_id}", authed(http.HandlerFunc(h.GetRoute)))
	mux.Handle("GET /routes/{route_id}/passengers", authed(http.HandlerFunc(h.GetPassengers)))
	mux.Handle("POST /routes/{route_id}/book", authed(http.HandlerFunc(h.BookSeat)))
	mux.Handle("POST /routes/{route_id}/cancel-booking", authed(http.HandlerFunc(h.CancelBooking)))
	mux.Handle("POST /routes/{route_id}/cancel", authed(http.HandlerFunc(h.CancelRoute)))
	mux.Handle("POST /routes/{route_id}/start", authed(http.HandlerFunc(h.StartRide)))
	mux.Handle("POST /routes/{route_id}/finish", authed(http.HandlerFunc(h.FinishRide)))

	mux.Handle("GET /notifications", authed(http.HandlerFunc(h.ListNotifications)))
	mux.Handle("POST /notifications/{notification_id}/read", authed(http.HandlerFunc(h.MarkNotificationRead)))

	mux.Handle("GET /admin/stats", h.jwtManager.RequireRole(auth.RoleAdmin, http.HandlerFunc(h.AdminStats)))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// --- JSON helpers ---

// writeJSON is a helper for writing JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

// writeError is a helper for writing standardized JSON error responses.
func writeError(w http.ResponseWriter, status int, message string) {
	type errorResponse struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// writeCode writes an error response with a stable machine-readable code.
func writeCode(w http.ResponseWriter, status int, code, message string) {
	type errorResponse struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	writeJSON(w, status, errorResponse{
		Error:   code,
		Message: message,
	})
}

// writeDomainError maps domain errors to stable codes and HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRouteNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		writeCode(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrNoSeatsAvailable):
		writeCode(w, http.StatusConflict, "CAPACITY_EXCEEDED", "No seats available")
	case errors.Is(err, domain.ErrAlreadyBooked):
		writeCode(w, http.StatusConflict, "DUPLICATE_BOOKING", "You have already booked this route")
	case errors.Is(err, domain.ErrSelfBooking):
		writeCode(w, http.StatusForbidden, "SELF_BOOKING_FORBIDDEN", "Drivers cannot book their own route")
	case errors.Is(err, domain.ErrNotRouteOwner),
		errors.Is(err, domain.ErrUnauthorized):
		writeCode(w, http.StatusForbidden, "UNAUTHORIZED", "You do not own this resource")
	case errors.Is(err, domain.ErrRideNotCancellable),
		errors.Is(err, domain.ErrInvalidTransition):
		writeCode(w, http.StatusConflict, "INVALID_STATE", err.Error())
	default:
		writeCode(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
	}
}

// claims pulls the authenticated caller or fails the request.
func claims(w http.ResponseWriter, r *http.Request) (*auth.AppClaims, bool) {
	c, ok := auth.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authentication")
		return nil, false
	}
	return c, true
}
