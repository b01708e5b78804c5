package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"greenride/internal/ride/domain"
	"greenride/pkg/logger"
)

// memStore is an in-memory domain.Store. InTx serializes transactions on
// a single mutex and restores a snapshot on error, mirroring the commit
// and rollback semantics the use cases rely on.
type memStore struct {
	mu            sync.Mutex
	routes        map[string]*domain.Route
	bookings      map[string]*domain.Booking
	users         map[string]*domain.User
	notifications map[string]*domain.Notification
}

func newMemStore() *memStore {
	return &memStore{
		routes:        make(map[string]*domain.Route),
		bookings:      make(map[string]*domain.Booking),
		users:         make(map[string]*domain.User),
		notifications: make(map[string]*domain.Notification),
	}
}

func (s *memStore) Routes() domain.RouteRepository { return &memRouteRepo{s: s, locking: true} }
func (s *memStore) Bookings() domain.BookingRepository {
	return &memBookingRepo{s: s, locking: true}
}
func (s *memStore) Users() domain.UserRepository { return &memUserRepo{s: s, locking: true} }
func (s *memStore) Notifications() domain.NotificationRepository {
	return &memNotificationRepo{s: s, locking: true}
}

func (s *memStore) InTx(ctx context.Context, fn func(tx domain.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	routes        map[string]*domain.Route
	bookings      map[string]*domain.Booking
	users         map[string]*domain.User
	notifications map[string]*domain.Notification
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		routes:        make(map[string]*domain.Route, len(s.routes)),
		bookings:      make(map[string]*domain.Booking, len(s.bookings)),
		users:         make(map[string]*domain.User, len(s.users)),
		notifications: make(map[string]*domain.Notification, len(s.notifications)),
	}
	for k, v := range s.routes {
		snap.routes[k] = v
	}
	for k, v := range s.bookings {
		snap.bookings[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.notifications {
		snap.notifications[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.routes = snap.routes
	s.bookings = snap.bookings
	s.users = snap.users
	s.notifications = snap.notifications
}

type memTx struct {
	s *memStore
}

func (t *memTx) Routes() domain.RouteRepository     { return &memRouteRepo{s: t.s} }
func (t *memTx) Bookings() domain.BookingRepository { return &memBookingRepo{s: t.s} }
func (t *memTx) Users() domain.UserRepository       { return &memUserRepo{s: t.s} }
func (t *memTx) Notifications() domain.NotificationRepository {
	return &memNotificationRepo{s: t.s}
}

func cloneRoute(r *domain.Route) *domain.Route {
	return domain.ReconstructRoute(
		r.ID(), r.DriverID(), r.StartLocation(), r.Destination(), r.DepartureTime(),
		r.AvailableSeats(), r.CostPerSeat(), r.Status(), r.DistanceKm(), r.DurationMin(),
		r.ActualDepartureTime(), r.ActualArrivalTime(), r.CreatedAt(),
	)
}

// --- route repo ---

type memRouteRepo struct {
	s       *memStore
	locking bool
}

func (r *memRouteRepo) acquire() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memRouteRepo) Save(ctx context.Context, route *domain.Route) error {
	defer r.acquire()()
	r.s.routes[route.ID()] = cloneRoute(route)
	return nil
}

func (r *memRouteRepo) Update(ctx context.Context, route *domain.Route) error {
	defer r.acquire()()
	if _, ok := r.s.routes[route.ID()]; !ok {
		return domain.ErrRouteNotFound
	}
	r.s.routes[route.ID()] = cloneRoute(route)
	return nil
}

func (r *memRouteRepo) FindByID(ctx context.Context, routeID string) (*domain.Route, error) {
	defer r.acquire()()
	route, ok := r.s.routes[routeID]
	if !ok {
		return nil, domain.ErrRouteNotFound
	}
	return cloneRoute(route), nil
}

func (r *memRouteRepo) FindByIDForUpdate(ctx context.Context, routeID string) (*domain.Route, error) {
	return r.FindByID(ctx, routeID)
}

func (r *memRouteRepo) FindAll(ctx context.Context, destination string) ([]*domain.Route, error) {
	defer r.acquire()()
	var routes []*domain.Route
	for _, route := range r.s.routes {
		if destination != "" && !strings.Contains(strings.ToLower(route.Destination()), strings.ToLower(destination)) {
			continue
		}
		routes = append(routes, cloneRoute(route))
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].DepartureTime().Before(routes[j].DepartureTime())
	})
	return routes, nil
}

func (r *memRouteRepo) Delete(ctx context.Context, routeID string) error {
	defer r.acquire()()
	if _, ok := r.s.routes[routeID]; !ok {
		return domain.ErrRouteNotFound
	}
	delete(r.s.routes, routeID)
	return nil
}

func (r *memRouteRepo) Stats(ctx context.Context) (*domain.RouteStats, error) {
	defer r.acquire()()
	stats := &domain.RouteStats{TotalRoutes: int64(len(r.s.routes)), PopularDestination: "N/A"}
	counts := make(map[string]int)
	var distanced int
	for _, route := range r.s.routes {
		if route.DistanceKm() > 0 {
			stats.AvgDistanceKm += route.DistanceKm()
			distanced++
		}
		stats.AvgAvailableSeats += float64(route.AvailableSeats())
		counts[route.Destination()]++
	}
	if distanced > 0 {
		stats.AvgDistanceKm /= float64(distanced)
	}
	if len(r.s.routes) > 0 {
		stats.AvgAvailableSeats /= float64(len(r.s.routes))
	}
	best := 0
	for dest, n := range counts {
		if n > best {
			best = n
			stats.PopularDestination = dest
		}
	}
	return stats, nil
}

// --- booking repo ---

type memBookingRepo struct {
	s       *memStore
	locking bool
}

func (r *memBookingRepo) acquire() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memBookingRepo) Save(ctx context.Context, booking *domain.Booking) error {
	defer r.acquire()()
	b := *booking
	r.s.bookings[booking.ID] = &b
	return nil
}

func (r *memBookingRepo) Delete(ctx context.Context, bookingID string) error {
	defer r.acquire()()
	if _, ok := r.s.bookings[bookingID]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.s.bookings, bookingID)
	return nil
}

func (r *memBookingRepo) DeleteAllByRoute(ctx context.Context, routeID string) error {
	defer r.acquire()()
	for id, booking := range r.s.bookings {
		if booking.RouteID == routeID {
			delete(r.s.bookings, id)
		}
	}
	return nil
}

func (r *memBookingRepo) ExistsByUserAndRoute(ctx context.Context, userID, routeID string) (bool, error) {
	defer r.acquire()()
	for _, booking := range r.s.bookings {
		if booking.UserID == userID && booking.RouteID == routeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) FindByUserAndRoute(ctx context.Context, userID, routeID string) (*domain.Booking, error) {
	defer r.acquire()()
	for _, booking := range r.s.bookings {
		if booking.UserID == userID && booking.RouteID == routeID {
			b := *booking
			return &b, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

func (r *memBookingRepo) FindAllByRoute(ctx context.Context, routeID string) ([]*domain.Booking, error) {
	defer r.acquire()()
	return collectBookings(r.s, func(b *domain.Booking) bool { return b.RouteID == routeID }), nil
}

func (r *memBookingRepo) FindAllByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	defer r.acquire()()
	return collectBookings(r.s, func(b *domain.Booking) bool { return b.UserID == userID }), nil
}

func (r *memBookingRepo) FindAll(ctx context.Context) ([]*domain.Booking, error) {
	defer r.acquire()()
	return collectBookings(r.s, func(*domain.Booking) bool { return true }), nil
}

func collectBookings(s *memStore, keep func(*domain.Booking) bool) []*domain.Booking {
	var bookings []*domain.Booking
	for _, booking := range s.bookings {
		if keep(booking) {
			b := *booking
			bookings = append(bookings, &b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
	return bookings
}

// --- user repo ---

type memUserRepo struct {
	s       *memStore
	locking bool
}

func (r *memUserRepo) acquire() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memUserRepo) Save(ctx context.Context, user *domain.User) error {
	defer r.acquire()()
	u := *user
	r.s.users[user.ID] = &u
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	defer r.acquire()()
	user, ok := r.s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	defer r.acquire()()
	for _, user := range r.s.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// --- notification repo ---

type memNotificationRepo struct {
	s       *memStore
	locking bool
}

func (r *memNotificationRepo) acquire() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memNotificationRepo) Save(ctx context.Context, notification *domain.Notification) error {
	defer r.acquire()()
	n := *notification
	r.s.notifications[notification.ID] = &n
	return nil
}

func (r *memNotificationRepo) FindByID(ctx context.Context, notificationID string) (*domain.Notification, error) {
	defer r.acquire()()
	notification, ok := r.s.notifications[notificationID]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	n := *notification
	return &n, nil
}

func (r *memNotificationRepo) FindByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	defer r.acquire()()
	var notifications []*domain.Notification
	for _, notification := range r.s.notifications {
		if notification.RecipientID == recipientID {
			n := *notification
			notifications = append(notifications, &n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (r *memNotificationRepo) ExistsByRecipientAndMessage(ctx context.Context, recipientID, message string) (bool, error) {
	defer r.acquire()()
	for _, notification := range r.s.notifications {
		if notification.RecipientID == recipientID && notification.Message == message {
			return true, nil
		}
	}
	return false, nil
}

func (r *memNotificationRepo) Update(ctx context.Context, notification *domain.Notification) error {
	defer r.acquire()()
	if _, ok := r.s.notifications[notification.ID]; !ok {
		return domain.ErrNotificationNotFound
	}
	n := *notification
	r.s.notifications[notification.ID] = &n
	return nil
}

// --- fakes ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentNotification struct {
	RecipientID string
	Message     string
	Category    domain.NotificationCategory
}

// recordingNotifier implements domain.Notifier without persistence.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) Notify(ctx context.Context, recipientID, message string, category domain.NotificationCategory) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{recipientID, message, category})
}

func (n *recordingNotifier) all() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]sentNotification, len(n.sent))
	copy(out, n.sent)
	return out
}

func (n *recordingNotifier) forRecipient(recipientID string) []sentNotification {
	var out []sentNotification
	for _, s := range n.all() {
		if s.RecipientID == recipientID {
			out = append(out, s)
		}
	}
	return out
}

// recordingPublisher implements EventPublisher.
type recordingPublisher struct {
	mu     sync.Mutex
	events []NotificationEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// --- seed helpers ---

var testLog = logger.NewLogger("test")

func seedUser(t *testing.T, store *memStore, id, username, role string) {
	t.Helper()
	err := store.Users().Save(context.Background(), &domain.User{
		ID:       id,
		Username: username,
		Role:     role,
		Rating:   4.5,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedRoute(t *testing.T, store *memStore, id, driverID, destination string, departure time.Time, seats int) {
	t.Helper()
	route, err := domain.NewRoute(driverID, "Campus", destination, departure, seats, 5.0, departure.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("seed route: %v", err)
	}
	route.SetID(id)
	if err := store.Routes().Save(context.Background(), route); err != nil {
		t.Fatalf("seed route: %v", err)
	}
}

func seedBooking(t *testing.T, store *memStore, id, userID, routeID string, createdAt time.Time) {
	t.Helper()
	err := store.Bookings().Save(context.Background(), &domain.Booking{
		ID:        id,
		UserID:    userID,
		RouteID:   routeID,
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
}
