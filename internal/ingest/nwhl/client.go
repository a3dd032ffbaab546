package nwhl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production NWHL game database host.
const DefaultBaseURL = "https://www.nwhl.zone"

// ErrRetrieval covers transport failures and non-JSON payloads. Retrieval is a
// single GET with no retry, so any ErrRetrieval aborts the run.
var ErrRetrieval = errors.New("play-by-play retrieval failed")

// Client fetches raw play-by-play records from the NWHL endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client with a custom base URL. An empty URL falls back to the
// production host.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewClient creates a client with default settings.
func NewClient() *Client {
	return New(DefaultBaseURL)
}

// FetchPlayByPlay issues one GET for the given game id and returns the decoded
// record as a generic map.
func (c *Client) FetchPlayByPlay(ctx context.Context, gameID string) (map[string]interface{}, error) {
	endpoint := fmt.Sprintf("%s/game/get_play_by_plays?id=%s", c.baseURL, url.QueryEscape(gameID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRetrieval, err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRetrieval, err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrRetrieval, res.Status)
	}

	// An HTML error page means we are not looking at the JSON endpoint.
	if len(body) > 0 && body[0] == '<' {
		return nil, fmt.Errorf("%w: endpoint returned an HTML page instead of JSON", ErrRetrieval)
	}

	var record map[string]interface{}
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrRetrieval, err)
	}

	return record, nil
}
