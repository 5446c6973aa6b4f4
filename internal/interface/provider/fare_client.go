package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"

	"golang.org/x/time/rate"
)

// FareClient implements FareProvider against the HTTP fare source. A
// shared rate limiter enforces a global minimum spacing between requests,
// so an ad-hoc search running alongside a batch cannot exceed the
// source's effective rate.
type FareClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     logger.Logger
}

// NewFareClient creates a new fare source client. minInterval is the
// minimum spacing between any two requests through this client.
func NewFareClient(baseURL string, minInterval time.Duration, logger logger.Logger) *FareClient {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &FareClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// Lookup queries the fare source for one task. A source-side "no
// availability" answer comes back as entity.ErrNoAvailability.
func (c *FareClient) Lookup(ctx context.Context, task entity.SearchTask) (*entity.FareResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("from", task.FromAirport)
	q.Set("to", task.ToAirport)
	q.Set("date", task.Date)
	q.Set("trip", string(task.TripType))
	q.Set("seat", string(task.SeatClass))
	q.Set("max_stops", strconv.Itoa(task.MaxStops))
	q.Set("adults", strconv.Itoa(task.NumAdults))
	q.Set("fetch_mode", string(task.FetchMode))

	reqURL := c.baseURL + "/flights?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build fare request: %w", err)
	}

	c.logger.Debug("Querying fare source", "route", task.Route(), "date", task.Date)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fare lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, entity.ErrNoAvailability
	default:
		return nil, fmt.Errorf("fare lookup: unexpected status %d", resp.StatusCode)
	}

	var result entity.FareResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode fare response: %w", err)
	}

	return &result, nil
}

var _ repository.FareProvider = (*FareClient)(nil)
