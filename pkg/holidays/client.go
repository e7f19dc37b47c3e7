package holidays

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const defaultBaseURL = "https://date.nager.at/api/v3/PublicHolidays"

// Holiday is one entry from the Nager.Date public holiday API. Date is
// in "YYYY-MM-DD" form.
type Holiday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// Client is a minimal Nager.Date client.
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

// PublicHolidays returns all public holidays of the given year and
// ISO 3166-1 country code.
func (c *Client) PublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error) {
	u := fmt.Sprintf("%s/%d/%s", c.baseURL, year, countryCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("holidays: unexpected status " + resp.Status)
	}
	var out []Holiday
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
