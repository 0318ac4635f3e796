package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"ticketbook/internal/data/entity"
	"ticketbook/internal/data/repository"
	"ticketbook/internal/dto/response"
	"ticketbook/internal/gateway"
	"ticketbook/internal/queue"
	"ticketbook/pkg/utils"

	"go.uber.org/zap"
)

const (
	publishTimeout = 3 * time.Second
	commitTimeout  = 10 * time.Second
)

const (
	msgRemoteUnavailable = "API not available. Data will be stored locally."
	msgLoadFailed        = "Failed to load data. Using local storage."
	msgAddShowFailed     = "Failed to add show. Please try again."
	msgShowNotFound      = "Show not found"
	msgBookingFailed     = "Booking failed. Please try again."
	msgRefreshFailed     = "Failed to refresh data from server"
)

// BookingService is what the HTTP adaptor calls. Mutating operations report
// success as a bool and leave any failure in the state's Error.
type BookingService interface {
	Initialize(ctx context.Context)
	AddShow(ctx context.Context, show NewShow) bool
	AddShowResult(ctx context.Context, show NewShow) (entity.Show, bool)
	CreateBooking(ctx context.Context, showID string, seats []int, userID string) bool
	CreateBookingResult(ctx context.Context, showID string, seats []int, userID string) (entity.Booking, bool)
	RefreshShows(ctx context.Context)

	GetShow(id string) (entity.Show, bool)
	GetBookingsByUser(userID string) []entity.Booking
	GetBookingsByShow(showID string) []entity.Booking
	ClearError()
	Snapshot() State
	Stats() Stats
	PendingCount() int
}

// BookingManager owns the shows and bookings collections. It reconciles the
// remote booking service with the local snapshot store and falls back to
// local-only records when the remote is unreachable.
type BookingManager struct {
	repo      repository.StateRepository
	gateway   gateway.Client
	publisher queue.Publisher
	log       *zap.Logger

	errorWindow time.Duration
	now         func() time.Time

	// writeMu serializes mutating operations from the availability check
	// through the commit, gateway call included.
	writeMu sync.Mutex

	mu          sync.RWMutex
	shows       []entity.Show
	bookings    []entity.Booking
	pending     []entity.PendingSync
	loading     bool
	opErr       *OperationError
	initialized bool

	wake chan struct{}
}

func NewBookingManager(
	repo repository.StateRepository,
	gw gateway.Client,
	publisher queue.Publisher,
	config utils.BookingConfig,
	log *zap.Logger,
) *BookingManager {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}

	return &BookingManager{
		repo:        repo,
		gateway:     gw,
		publisher:   publisher,
		log:         log.With(zap.String("service", "booking")),
		errorWindow: config.ErrorWindow,
		now:         time.Now,
		shows:       []entity.Show{},
		bookings:    []entity.Booking{},
		pending:     []entity.PendingSync{},
		wake:        make(chan struct{}, 1),
	}
}

// Initialize seeds state from the snapshot store, then from the remote
// service when it answers. Only the first call does anything.
func (m *BookingManager) Initialize(ctx context.Context) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	done := m.initialized
	m.mu.RUnlock()
	if done {
		return
	}

	m.begin()
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.initialized = true
		m.mu.Unlock()
	}()

	savedShows, showsErr := m.repo.LoadShows(ctx)
	savedBookings, bookingsErr := m.repo.LoadBookings(ctx)
	pending, pendingErr := m.repo.LoadPending(ctx)
	if err := errors.Join(showsErr, bookingsErr, pendingErr); err != nil {
		m.log.Error("Failed to load persisted state", zap.Error(err))
		m.fail(ErrorKindStorage, msgLoadFailed)
		return
	}

	m.mu.Lock()
	if len(savedShows) > 0 {
		m.shows = savedShows
	}
	if len(savedBookings) > 0 {
		m.bookings = savedBookings
	}
	m.pending = pending
	m.mu.Unlock()

	if len(pending) > 0 {
		m.signalPending()
	}

	m.log.Info("Persisted state loaded",
		zap.Int("shows", len(savedShows)),
		zap.Int("bookings", len(savedBookings)),
		zap.Int("pending_sync", len(pending)),
	)

	remoteShows, remoteBookings, err := gateway.FetchAll(ctx, m.gateway)
	if err != nil {
		m.log.Info("API not available, using local data", zap.Error(err))
		if len(savedShows) == 0 && len(savedBookings) == 0 {
			m.fail(ErrorKindRemote, msgRemoteUnavailable)
		}
		return
	}

	var change stateChange
	if len(remoteShows) > 0 {
		change.shows = showsFromWire(remoteShows)
	}
	if len(remoteBookings) > 0 {
		change.bookings = bookingsFromWire(remoteBookings)
	}

	if err := m.commit(ctx, change); err != nil {
		m.log.Error("Failed to persist remote state", zap.Error(err))
		m.fail(ErrorKindStorage, msgLoadFailed)
		return
	}

	m.log.Info("Remote state adopted",
		zap.Int("shows", len(remoteShows)),
		zap.Int("bookings", len(remoteBookings)),
	)
}

// AddShow creates a show remotely, or locally when the remote call fails.
// It returns true once the show is in memory and persisted.
func (m *BookingManager) AddShow(ctx context.Context, in NewShow) bool {
	_, ok := m.AddShowResult(ctx, in)
	return ok
}

// AddShowResult is AddShow that also returns the stored show.
func (m *BookingManager) AddShowResult(ctx context.Context, in NewShow) (entity.Show, bool) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.begin()
	defer m.end()

	if strings.TrimSpace(in.Name) == "" || in.TotalSeats <= 0 {
		m.fail(ErrorKindInvalid, "Show needs a name and at least one seat")
		return entity.Show{}, false
	}

	showType := in.Type
	if showType == "" {
		showType = entity.ShowTypeShow
	}

	candidate := entity.Show{
		ID:          utils.GenerateShowID(),
		Name:        in.Name,
		StartTime:   in.StartTime,
		TotalSeats:  in.TotalSeats,
		BookedSeats: []int{},
		Price:       in.Price,
		Type:        showType,
	}

	m.mu.RLock()
	shows, pending := m.shows, m.pending
	m.mu.RUnlock()

	var change stateChange
	show := candidate
	remote, err := m.gateway.CreateShow(ctx, response.ShowToRemoteRequest(candidate))
	if err == nil {
		show = response.ShowToEntity(*remote)
	} else {
		m.log.Info("API call failed, using local storage",
			zap.Error(err),
			zap.String("show_id", candidate.ID),
		)
		change.pending = appendCopy(pending, m.pendingShow(candidate))
	}
	change.shows = appendCopy(shows, show)

	if err := m.commit(ctx, change); err != nil {
		m.log.Error("Failed to add show", zap.Error(err), zap.String("show_id", show.ID))
		m.fail(ErrorKindStorage, msgAddShowFailed)
		return entity.Show{}, false
	}

	if change.pending != nil {
		m.signalPending()
	}

	m.log.Info("Show added",
		zap.String("show_id", show.ID),
		zap.String("type", string(show.Type)),
		zap.Int("total_seats", show.TotalSeats),
		zap.Bool("remote", change.pending == nil),
	)

	return show.Clone(), true
}

// CreateBooking reserves seats on a show. Requested seats must be on the show
// and not already booked; the check and the commit run under writeMu.
func (m *BookingManager) CreateBooking(ctx context.Context, showID string, seats []int, userID string) bool {
	_, ok := m.CreateBookingResult(ctx, showID, seats, userID)
	return ok
}

// CreateBookingResult is CreateBooking that also returns the stored booking.
func (m *BookingManager) CreateBookingResult(ctx context.Context, showID string, seats []int, userID string) (entity.Booking, bool) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.begin()
	defer m.end()

	if len(seats) == 0 {
		m.fail(ErrorKindInvalid, "No seats selected")
		return entity.Booking{}, false
	}

	m.mu.RLock()
	shows, bookings, pending := m.shows, m.bookings, m.pending
	m.mu.RUnlock()

	idx := slices.IndexFunc(shows, func(s entity.Show) bool { return s.ID == showID })
	if idx < 0 {
		m.fail(ErrorKindNotFound, msgShowNotFound)
		return entity.Booking{}, false
	}
	show := shows[idx]

	if msg := seatShapeProblem(seats, show.TotalSeats); msg != "" {
		m.fail(ErrorKindInvalid, msg)
		return entity.Booking{}, false
	}

	var unavailable []int
	for _, seat := range seats {
		if show.IsBooked(seat) {
			unavailable = append(unavailable, seat)
		}
	}
	if len(unavailable) > 0 {
		m.log.Warn("Seats already booked",
			zap.String("show_id", showID),
			zap.Ints("seats", unavailable),
		)
		m.fail(ErrorKindConflict, fmt.Sprintf("Seats %s are already booked", joinSeats(unavailable)))
		return entity.Booking{}, false
	}

	candidate := entity.Booking{
		ID:          utils.GenerateBookingID(),
		ShowID:      showID,
		UserID:      userID,
		Seats:       slices.Clone(seats),
		Status:      entity.BookingStatusConfirmed,
		TotalAmount: utils.LineTotal(show.Price, len(seats)),
		CreatedAt:   m.now().UTC(),
	}

	var change stateChange
	booking := candidate
	remote, err := m.gateway.CreateBooking(ctx, response.BookingToRemoteRequest(candidate))
	if err == nil {
		booking = response.BookingToEntity(*remote)
	} else {
		m.log.Info("Booking API failed, using local storage",
			zap.Error(err),
			zap.String("booking_id", candidate.ID),
		)
		change.pending = appendCopy(pending, m.pendingBooking(candidate))
	}

	nextShows := slices.Clone(shows)
	nextShows[idx] = show.WithSeatsBooked(seats)
	change.shows = nextShows
	change.bookings = appendCopy(bookings, booking)

	if err := m.commit(ctx, change); err != nil {
		m.log.Error("Booking failed", zap.Error(err), zap.String("show_id", showID))
		m.fail(ErrorKindStorage, msgBookingFailed)
		return entity.Booking{}, false
	}

	if change.pending != nil {
		m.signalPending()
	}

	m.log.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("show_id", showID),
		zap.String("user_id", userID),
		zap.Int("seat_count", len(seats)),
		zap.Float64("total_amount", booking.TotalAmount),
		zap.Bool("remote", change.pending == nil),
	)

	m.publishConfirmed(ctx, show, booking, change.pending == nil)
	return booking.Clone(), true
}

// RefreshShows replaces both collections with the remote ones, even when
// the remote lists are empty. On failure local state is kept.
func (m *BookingManager) RefreshShows(ctx context.Context) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.begin()
	defer m.end()

	remoteShows, remoteBookings, err := gateway.FetchAll(ctx, m.gateway)
	if err == nil {
		err = m.commit(ctx, stateChange{
			shows:    showsFromWire(remoteShows),
			bookings: bookingsFromWire(remoteBookings),
		})
	}

	if err != nil {
		m.log.Info("Refresh failed, keeping local data", zap.Error(err))
		m.mu.RLock()
		empty := len(m.shows) == 0
		m.mu.RUnlock()
		if empty {
			m.fail(ErrorKindRemote, msgRefreshFailed)
		}
		return
	}

	m.log.Info("State refreshed",
		zap.Int("shows", len(remoteShows)),
		zap.Int("bookings", len(remoteBookings)),
	)
}

func (m *BookingManager) GetShow(id string) (entity.Show, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.shows {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return entity.Show{}, false
}

func (m *BookingManager) GetBookingsByUser(userID string) []entity.Booking {
	return m.filterBookings(func(b entity.Booking) bool { return b.UserID == userID })
}

// GetBookingsByShow does not require the show to exist.
func (m *BookingManager) GetBookingsByShow(showID string) []entity.Booking {
	return m.filterBookings(func(b entity.Booking) bool { return b.ShowID == showID })
}

func (m *BookingManager) filterBookings(keep func(entity.Booking) bool) []entity.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []entity.Booking{}
	for _, b := range m.bookings {
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	return out
}

func (m *BookingManager) ClearError() {
	m.mu.Lock()
	m.opErr = nil
	m.mu.Unlock()
}

func (m *BookingManager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return State{
		Shows:       cloneShows(m.shows),
		Bookings:    cloneBookings(m.bookings),
		Loading:     m.loading,
		Error:       m.visibleError(),
		Initialized: m.initialized,
	}
}

// Stats counts shows and trips, and totals confirmed bookings and their revenue.
func (m *BookingManager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats Stats
	for _, s := range m.shows {
		switch s.Type {
		case entity.ShowTypeTrip:
			stats.Trips++
		default:
			stats.Shows++
		}
	}
	var amounts []float64
	for _, b := range m.bookings {
		if b.Status == entity.BookingStatusConfirmed {
			stats.ConfirmedBookings++
			amounts = append(amounts, b.TotalAmount)
		}
	}
	stats.Revenue = utils.SumAmounts(amounts...)
	return stats
}

func (m *BookingManager) PendingCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pending)
}

// commit persists the changed collections, then swaps them into memory.
// Slots already written are restored when a later write fails, and memory
// is left untouched. The writes ignore caller cancellation so a departed
// client cannot leave the slots half written.
func (m *BookingManager) commit(ctx context.Context, c stateChange) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	m.mu.RLock()
	prevShows, prevBookings := m.shows, m.bookings
	m.mu.RUnlock()

	var undo []func(context.Context) error
	rollback := func(cause error) error {
		for i := len(undo) - 1; i >= 0; i-- {
			if err := undo[i](ctx); err != nil {
				m.log.Error("Failed to restore snapshot after write error", zap.Error(err))
			}
		}
		return cause
	}

	if c.bookings != nil {
		if err := m.repo.SaveBookings(ctx, c.bookings); err != nil {
			return rollback(fmt.Errorf("save bookings: %w", err))
		}
		undo = append(undo, func(ctx context.Context) error { return m.repo.SaveBookings(ctx, prevBookings) })
	}
	if c.shows != nil {
		if err := m.repo.SaveShows(ctx, c.shows); err != nil {
			return rollback(fmt.Errorf("save shows: %w", err))
		}
		undo = append(undo, func(ctx context.Context) error { return m.repo.SaveShows(ctx, prevShows) })
	}
	if c.pending != nil {
		if err := m.repo.SavePending(ctx, c.pending); err != nil {
			return rollback(fmt.Errorf("save pending sync: %w", err))
		}
	}

	m.mu.Lock()
	if c.shows != nil {
		m.shows = c.shows
	}
	if c.bookings != nil {
		m.bookings = c.bookings
	}
	if c.pending != nil {
		m.pending = c.pending
	}
	m.mu.Unlock()

	return nil
}

func (m *BookingManager) begin() {
	m.mu.Lock()
	m.loading = true
	m.opErr = nil
	m.mu.Unlock()
}

func (m *BookingManager) end() {
	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
}

func (m *BookingManager) fail(kind ErrorKind, message string) {
	m.mu.Lock()
	m.opErr = &OperationError{Kind: kind, Message: message, At: m.now()}
	m.mu.Unlock()
}

// visibleError hides errors older than the display window. Callers hold mu.
func (m *BookingManager) visibleError() *OperationError {
	if m.opErr == nil {
		return nil
	}
	if m.errorWindow > 0 && m.now().Sub(m.opErr.At) > m.errorWindow {
		return nil
	}
	e := *m.opErr
	return &e
}

func (m *BookingManager) publishConfirmed(ctx context.Context, show entity.Show, booking entity.Booking, synced bool) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := m.publisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
		BookingID:   booking.ID,
		ShowID:      show.ID,
		ShowName:    show.Name,
		ShowType:    string(show.Type),
		StartsAt:    show.StartTime,
		UserID:      booking.UserID,
		Seats:       slices.Clone(booking.Seats),
		TotalAmount: booking.TotalAmount,
		Synced:      synced,
		ConfirmedAt: booking.CreatedAt,
	})
	if err != nil {
		m.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("booking_id", booking.ID),
		)
	}
}

// seatShapeProblem rejects seats outside [1, total] and repeated seats.
func seatShapeProblem(seats []int, total int) string {
	var outside []int
	seen := make(map[int]struct{}, len(seats))
	for _, seat := range seats {
		if seat < 1 || seat > total {
			outside = append(outside, seat)
			continue
		}
		if _, dup := seen[seat]; dup {
			return fmt.Sprintf("Seat %d is selected more than once", seat)
		}
		seen[seat] = struct{}{}
	}
	if len(outside) > 0 {
		return fmt.Sprintf("Seats %s are not on this show (1-%d)", joinSeats(outside), total)
	}
	return ""
}

func joinSeats(seats []int) string {
	parts := make([]string, len(seats))
	for i, seat := range seats {
		parts[i] = strconv.Itoa(seat)
	}
	return strings.Join(parts, ", ")
}

func showsFromWire(items []response.ShowResponse) []entity.Show {
	out := make([]entity.Show, len(items))
	for i, item := range items {
		out[i] = response.ShowToEntity(item)
	}
	return out
}

func bookingsFromWire(items []response.BookingResponse) []entity.Booking {
	out := make([]entity.Booking, len(items))
	for i, item := range items {
		out[i] = response.BookingToEntity(item)
	}
	return out
}
