package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type ExchangeClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewExchangeClient(endpoint, apiKey string, timeout time.Duration) *ExchangeClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &ExchangeClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type exchangePayload struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// RatePerUSD returns how many units of the given currency one US dollar
// buys.
func (c *ExchangeClient) RatePerUSD(ctx context.Context, currencyCode string) (float64, error) {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == "" {
		return 0, ErrNotFound
	}

	endpointURL := c.endpoint + "/v6/latest/USD"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build exchange request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("exchange request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("exchange lookup failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload exchangePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode exchange response: %w", err)
	}

	rate, ok := payload.Rates[code]
	if !ok {
		return 0, ErrNotFound
	}

	return rate, nil
}
