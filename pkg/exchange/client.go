package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

const defaultBaseURL = "https://open.er-api.com/v6/latest/USD"

// Client is a minimal ExchangeRate-API client. The free endpoint quotes
// every currency against USD.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// Latest returns the current USD-based rate table.
func (c *Client) Latest(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("exchange: unexpected status " + resp.Status)
	}
	var body struct {
		Result string             `json:"result"`
		Rates  map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Result != "success" {
		return nil, errors.New("exchange: api responded with " + body.Result)
	}
	return body.Rates, nil
}
