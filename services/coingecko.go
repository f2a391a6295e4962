package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	COINGECKO_API_URL = "https://api.coingecko.com/api/v3"
)

// CoinGeckoClient fetches spot prices from the CoinGecko simple-price
// endpoint. Every call is a fresh outbound request; there is no caching
// or retrying here.
type CoinGeckoClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// UpstreamError reports a non-success status from the price API. The
// HTTP layer forwards StatusCode to the caller as-is.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Detail)
}

func NewCoinGeckoClient(apiKey string) *CoinGeckoClient {
	return &CoinGeckoClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: COINGECKO_API_URL,
		apiKey:  apiKey,
	}
}

// GetPrice fetches the USD price for a coin identifier such as
// "bitcoin". The identifier is passed through verbatim; when the
// upstream answers successfully but does not know the coin, found is
// false with a nil error.
func (c *CoinGeckoClient) GetPrice(coin string) (price float64, found bool, err error) {
	reqURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(coin))

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, false, &UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     string(bodyBytes),
		}
	}

	// Response shape: {"bitcoin": {"usd": 50000}}
	var payload map[string]map[string]float64
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		return 0, false, fmt.Errorf("failed to parse response for %s: %w", coin, err)
	}

	quote, ok := payload[coin]
	if !ok {
		return 0, false, nil
	}
	usd, ok := quote["usd"]
	if !ok {
		return 0, false, nil
	}
	return usd, true, nil
}
