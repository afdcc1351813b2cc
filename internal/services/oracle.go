// Oracle reading backend implementation of [Service]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wyndholt/arcana/internal/models"
	"github.com/wyndholt/arcana/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultOracleBaseURL = "http://localhost:8000"
	defaultPageSize      = 40
	defaultRateLimit     = 5.0

	cardsPath  = "/api/v1/cards"
	streamPath = "/api/v1/readings/stream"
)

// OracleService implements [Service] against the reading backend.
type OracleService struct {
	baseURL    string
	httpClient *http.Client
	headers    *shared.CurlHeaders
	limiter    *rate.Limiter
	pageSize   int
}

// OracleOpts contains configuration options for creating an OracleService.
type OracleOpts struct {
	Config     shared.ServiceConfig
	HTTPClient *http.Client // overrides the token-derived client, mainly for tests
	PageSize   int
}

// NewOracleService creates a client for the reading backend.
//
// When no HTTP client is supplied, the configured bearer token is wrapped in
// an [oauth2.StaticTokenSource] so every request carries the Authorization
// header. The derived client has no timeout: the stream response body stays
// open for the whole reading and must not be cut off mid-generation.
func NewOracleService(opts OracleOpts) (*OracleService, error) {
	baseURL := strings.TrimSuffix(opts.Config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOracleBaseURL
	}

	client := opts.HTTPClient
	if client == nil {
		if opts.Config.Token == "" {
			client = http.DefaultClient
		} else {
			src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Config.Token})
			client = oauth2.NewClient(context.Background(), src)
		}
	}

	var headers *shared.CurlHeaders
	if opts.Config.HeadersPath != "" {
		parsed, err := shared.ParseCurlFile(opts.Config.HeadersPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load stream headers: %w", err)
		}
		headers = parsed
	}

	limit := opts.Config.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &OracleService{
		baseURL:    baseURL,
		httpClient: client,
		headers:    headers,
		limiter:    rate.NewLimiter(rate.Limit(limit), 1),
		pageSize:   pageSize,
	}, nil
}

// Name returns the provider's display name.
func (o *OracleService) Name() string {
	return "Oracle"
}

type cardsPage struct {
	Cards []models.Card `json:"cards"`
	Total int           `json:"total"`
}

// ListCards fetches the whole catalogue page by page under the rate limiter.
func (o *OracleService) ListCards(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card

	for page := 1; ; page++ {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		batch, total, err := o.fetchCardsPage(ctx, page)
		if err != nil {
			return nil, err
		}
		cards = append(cards, batch...)

		if len(batch) < o.pageSize || (total > 0 && len(cards) >= total) {
			break
		}
	}

	if len(cards) == 0 {
		return nil, shared.ErrDeckEmpty
	}
	return cards, nil
}

func (o *OracleService) fetchCardsPage(ctx context.Context, page int) ([]models.Card, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(o.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+cardsPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if o.headers != nil {
		o.headers.Apply(req)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, 0, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed cardsPage
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("failed to decode cards page: %w", err)
	}
	return parsed.Cards, parsed.Total, nil
}

// OpenReadingStream issues the streaming POST and returns the response body.
//
// This is the one place a plain event-source client won't do: the gateway
// requires the captured browser headers and the bearer token on the request,
// so the stream package parses the body by hand.
func (o *OracleService) OpenReadingStream(ctx context.Context, reading models.ReadingRequest) (io.ReadCloser, error) {
	payload, err := json.Marshal(reading)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reading request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+streamPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Request-ID", shared.GenerateID())
	if o.headers != nil {
		o.headers.Apply(req)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return resp.Body, nil
}
