// Package gateway talks to the remote booking service. Every failure, whether
// transport, status or schema, is returned as an error so callers can fall
// back to local state.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ticketbook/internal/dto/request"
	"ticketbook/internal/dto/response"
	"ticketbook/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxBodyBytes = 4 << 20

type Client interface {
	ListShows(ctx context.Context) ([]response.ShowResponse, error)
	CreateShow(ctx context.Context, req request.RemoteShowRequest) (*response.ShowResponse, error)
	ListBookings(ctx context.Context) ([]response.BookingResponse, error)
	CreateBooking(ctx context.Context, req request.RemoteBookingRequest) (*response.BookingResponse, error)
	Health(ctx context.Context) error
}

type httpClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     *zap.Logger
}

func NewClient(config utils.RemoteConfig, log *zap.Logger) Client {
	return NewClientWithHTTP(config, &http.Client{}, log)
}

func NewClientWithHTTP(config utils.RemoteConfig, hc *http.Client, log *zap.Logger) Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &httpClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		timeout: timeout,
		http:    hc,
		log:     log.With(zap.String("gateway", "booking_service")),
	}
}

func (c *httpClient) ListShows(ctx context.Context) ([]response.ShowResponse, error) {
	var out response.ShowListResponse
	if err := c.do(ctx, "list shows", http.MethodGet, "/admin/shows", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *httpClient) CreateShow(ctx context.Context, req request.RemoteShowRequest) (*response.ShowResponse, error) {
	var out response.ShowResponse
	if err := c.do(ctx, "create show", http.MethodPost, "/admin/shows", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) ListBookings(ctx context.Context) ([]response.BookingResponse, error) {
	var out response.BookingListResponse
	if err := c.do(ctx, "list bookings", http.MethodGet, "/admin/bookings", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *httpClient) CreateBooking(ctx context.Context, req request.RemoteBookingRequest) (*response.BookingResponse, error) {
	var out response.BookingResponse
	if err := c.do(ctx, "create booking", http.MethodPost, "/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", nil, nil)
}

func (c *httpClient) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("Booking service unreachable", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("Booking service rejected request",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
		)
		return &StatusError{Op: op, Code: resp.StatusCode, Detail: errorDetail(raw)}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidResponse, err)
	}
	if errs := utils.ValidateStruct(out); len(errs) > 0 {
		c.log.Warn("Booking service sent an invalid payload",
			zap.String("op", op),
			zap.Any("errors", errs),
		)
		return fmt.Errorf("%s: %w: %s", op, ErrInvalidResponse, utils.FormatValidationErrors(errs))
	}

	return nil
}

// FetchAll loads shows and bookings concurrently. Both must succeed.
func FetchAll(ctx context.Context, c Client) ([]response.ShowResponse, []response.BookingResponse, error) {
	var (
		shows    []response.ShowResponse
		bookings []response.BookingResponse
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shows, err = c.ListShows(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = c.ListBookings(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return shows, bookings, nil
}

func errorDetail(raw []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}

	detail := strings.TrimSpace(string(raw))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return detail
}
