package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ticketbook/internal/data/entity"
	"ticketbook/internal/data/repository"
	"ticketbook/internal/dto/request"
	"ticketbook/internal/dto/response"
	"ticketbook/internal/queue"
	"ticketbook/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errOffline = errors.New("dial tcp 127.0.0.1:3001: connect: connection refused")

type fakeGateway struct {
	mu sync.Mutex

	shows    []response.ShowResponse
	bookings []response.BookingResponse

	listErr          error
	createShowErr    error
	createBookingErr error
	healthErr        error

	listCalls int

	// replaces the seats echoed back by CreateBooking
	remoteSeats []int

	// accepted creates only
	createdShows    []request.RemoteShowRequest
	createdBookings []request.RemoteBookingRequest
}

func (g *fakeGateway) ListShows(context.Context) ([]response.ShowResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]response.ShowResponse(nil), g.shows...), nil
}

func (g *fakeGateway) ListBookings(context.Context) ([]response.BookingResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]response.BookingResponse(nil), g.bookings...), nil
}

func (g *fakeGateway) CreateShow(_ context.Context, req request.RemoteShowRequest) (*response.ShowResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.createShowErr != nil {
		return nil, g.createShowErr
	}
	g.createdShows = append(g.createdShows, req)

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, err
	}
	show := response.ShowResponse{
		ID:         fmt.Sprintf("remote-show-%d", len(g.createdShows)),
		Name:       req.Name,
		StartTime:  start,
		TotalSeats: req.TotalSeats,
		Price:      req.Price,
		Type:       req.Type,
	}
	g.shows = append(g.shows, show)
	return &show, nil
}

func (g *fakeGateway) CreateBooking(_ context.Context, req request.RemoteBookingRequest) (*response.BookingResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.createBookingErr != nil {
		return nil, g.createBookingErr
	}
	g.createdBookings = append(g.createdBookings, req)

	seats := req.Seats
	if g.remoteSeats != nil {
		seats = g.remoteSeats
	}
	booking := response.BookingResponse{
		ID:          fmt.Sprintf("remote-booking-%d", len(g.createdBookings)),
		ShowID:      req.ShowID,
		UserID:      req.UserID,
		Seats:       append([]int(nil), seats...),
		Status:      "pending",
		TotalAmount: 0,
		CreatedAt:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	g.bookings = append(g.bookings, booking)
	return &booking, nil
}

func (g *fakeGateway) Health(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.healthErr
}

func (g *fakeGateway) setOffline(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listErr = err
	g.createShowErr = err
	g.createBookingErr = err
	g.healthErr = err
}

// flakyRepo fails the selected saves. Like the postgres store it refuses to
// write under a done context.
type flakyRepo struct {
	repository.StateRepository

	mu           sync.Mutex
	failShows    error
	failBookings error
	failPending  error

	// runs after each successful SaveBookings
	afterSaveBookings func()
}

func (r *flakyRepo) SaveShows(ctx context.Context, shows []entity.Show) error {
	r.mu.Lock()
	err := r.failShows
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.StateRepository.SaveShows(ctx, shows)
}

func (r *flakyRepo) SaveBookings(ctx context.Context, bookings []entity.Booking) error {
	r.mu.Lock()
	err, hook := r.failBookings, r.afterSaveBookings
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.StateRepository.SaveBookings(ctx, bookings); err != nil {
		return err
	}
	if hook != nil {
		hook()
	}
	return nil
}

func (r *flakyRepo) SavePending(ctx context.Context, pending []entity.PendingSync) error {
	r.mu.Lock()
	err := r.failPending
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.StateRepository.SavePending(ctx, pending)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
	err    error
}

func (p *recordingPublisher) PublishBookingConfirmed(_ context.Context, event queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type fixture struct {
	manager   *BookingManager
	gateway   *fakeGateway
	repo      *flakyRepo
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := &flakyRepo{StateRepository: repository.NewStateRepository(repository.NewMemoryStore(), zap.NewNop())}
	gw := &fakeGateway{}
	pub := &recordingPublisher{}

	return &fixture{
		manager:   NewBookingManager(repo, gw, pub, utils.BookingConfig{ErrorWindow: 5 * time.Second}, zap.NewNop()),
		gateway:   gw,
		repo:      repo,
		publisher: pub,
	}
}

// seed persists shows and bookings and initializes the manager from them
// with the remote offline.
func (f *fixture) seed(t *testing.T, shows []entity.Show, bookings []entity.Booking) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, f.repo.SaveShows(ctx, shows))
	require.NoError(t, f.repo.SaveBookings(ctx, bookings))

	f.gateway.setOffline(errOffline)
	f.manager.Initialize(ctx)
	require.True(t, f.manager.Snapshot().Initialized)
}

func futureShow(id string, seats int, price float64, booked ...int) entity.Show {
	return entity.Show{
		ID:          id,
		Name:        "Show " + id,
		StartTime:   time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second),
		TotalSeats:  seats,
		BookedSeats: append([]int{}, booked...),
		Price:       price,
		Type:        entity.ShowTypeShow,
	}
}
