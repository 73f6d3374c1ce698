package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Luismorlan/newsreader/model"
	. "github.com/Luismorlan/newsreader/utils/log"
	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://newsapi.org/v2"

	topHeadlinesPath = "/top-headlines"
	everythingPath   = "/everything"

	apiKeyHeader = "X-Api-Key"
)

var ErrMissingAPIKey = errors.New("news api key is not configured")

// UpstreamError is returned when the news API answers with a non-2xx status.
type UpstreamError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("news api responded %d: %s %s", e.StatusCode, e.Code, e.Message)
}

// Response mirrors the NewsAPI envelope so it can be relayed to clients as is.
type Response struct {
	Status       string          `json:"status"`
	TotalResults int             `json:"totalResults"`
	Articles     []model.Article `json:"articles"`
}

type TopHeadlinesParams struct {
	Country  string `url:"country,omitempty"`
	Category string `url:"category,omitempty"`
	Query    string `url:"q,omitempty"`
	Language string `url:"language,omitempty"`
	PageSize int    `url:"pageSize,omitempty"`
}

type EverythingParams struct {
	Domains  []string `url:"domains,comma,omitempty"`
	SortBy   string   `url:"sortBy,omitempty"`
	PageSize int      `url:"pageSize,omitempty"`
}

// HeadlineFetcher is the subset of the client the recommender needs.
type HeadlineFetcher interface {
	TopHeadlines(ctx context.Context, params TopHeadlinesParams) (*Response, error)
}

// Client talks to the NewsAPI v2 REST endpoints. A single request is made per
// call, failures are returned to the caller without retry.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	// Cache is optional, successful responses are stored under their full
	// request url when set.
	Cache    Cache
	CacheTTL time.Duration
}

func NewClient(baseURL string, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Configured returns false when no api key is set, every call would fail.
func (c *Client) Configured() bool {
	return c.APIKey != ""
}

func (c *Client) TopHeadlines(ctx context.Context, params TopHeadlinesParams) (*Response, error) {
	return c.get(ctx, topHeadlinesPath, params)
}

func (c *Client) Everything(ctx context.Context, params EverythingParams) (*Response, error) {
	return c.get(ctx, everythingPath, params)
}

func (c *Client) get(ctx context.Context, path string, params interface{}) (*Response, error) {
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}

	values, err := query.Values(params)
	if err != nil {
		return nil, errors.Wrap(err, "fail to encode query")
	}
	uri := c.BaseURL + path + "?" + values.Encode()

	if body, ok := c.cached(ctx, uri); ok {
		return decodeResponse(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fail to build request")
	}
	req.Header.Set(apiKeyHeader, c.APIKey)

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fail to reach news api")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read news api response")
	}

	if res.StatusCode >= 300 {
		upstreamErr := &UpstreamError{StatusCode: res.StatusCode}
		var payload struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			upstreamErr.Code = payload.Code
			upstreamErr.Message = payload.Message
		}
		return nil, upstreamErr
	}

	resp, err := decodeResponse(body)
	if err != nil {
		return nil, err
	}
	c.store(ctx, uri, body)
	return resp, nil
}

func decodeResponse(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "fail to decode news api response")
	}
	if resp.Articles == nil {
		resp.Articles = []model.Article{}
	}
	return &resp, nil
}

func (c *Client) cached(ctx context.Context, uri string) ([]byte, bool) {
	if c.Cache == nil {
		return nil, false
	}
	body, ok, err := c.Cache.Get(ctx, uri)
	if err != nil {
		// The cache is an optimization, fall through to the upstream.
		Log.WithError(err).WithField("uri", uri).Warn("news api cache read failed")
		return nil, false
	}
	return body, ok
}

func (c *Client) store(ctx context.Context, uri string, body []byte) {
	if c.Cache == nil || c.CacheTTL <= 0 {
		return
	}
	if err := c.Cache.Set(ctx, uri, body, c.CacheTTL); err != nil {
		Log.WithError(err).WithFields(logrus.Fields{"uri": uri}).Warn("news api cache write failed")
	}
}
