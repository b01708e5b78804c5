package handler

import (
	"net/http"
)

// ListNotifications handles GET /notifications.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}

	notifications, err := h.queries.ListNotifications(r.Context(), c.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkNotificationRead handles POST /notifications/{notification_id}/read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}

	err := h.queries.MarkNotificationRead(r.Context(), r.PathValue("notification_id"), c.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// AdminStats handles GET /admin/stats.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queries.AdminStats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_routes":        stats.TotalRoutes,
		"avg_distance_km":     stats.AvgDistanceKm,
		"avg_available_seats": stats.AvgAvailableSeats,
		"popular_destination": stats.PopularDestination,
	})
}
