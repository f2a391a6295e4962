package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"cointracker/db"
	"cointracker/services"
	"cointracker/store"
)

// PriceLookup is the interface the crypto handler needs from the
// CoinGecko client; tests substitute their own.
type PriceLookup interface {
	GetPrice(coin string) (price float64, found bool, err error)
}

type CryptoHandler struct {
	prices PriceLookup
	store  *store.TransactionStore
}

func NewCryptoHandler(prices PriceLookup, s *store.TransactionStore) *CryptoHandler {
	return &CryptoHandler{
		prices: prices,
		store:  s,
	}
}

type CryptoPriceResponse struct {
	CryptoName string   `json:"crypto_name"`
	PriceUSD   *float64 `json:"price_usd"`
}

// GetCryptoPrice handles GET /crypto/:crypto_name. A successful lookup
// with a known price also records an audit transaction with amount 1.0;
// that write is best-effort and a failure there does not fail the
// lookup itself.
func (h *CryptoHandler) GetCryptoPrice(c echo.Context) error {
	name := c.Param("crypto_name")

	price, found, err := h.prices.GetPrice(name)
	if err != nil {
		var upstream *services.UpstreamError
		if errors.As(err, &upstream) {
			return c.JSON(upstream.StatusCode, map[string]string{
				"error":   "Failed to fetch cryptocurrency data",
				"details": upstream.Detail,
			})
		}
		log.Printf("price lookup for %s failed: %v", name, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to fetch cryptocurrency data",
			"details": "unexpected error",
		})
	}

	resp := CryptoPriceResponse{CryptoName: name}
	if found {
		resp.PriceUSD = &price
		if _, err := h.store.Create(db.SessionFromContext(c), name, 1.0, price); err != nil {
			log.Printf("failed to record lookup for %s: %v", name, err)
		}
	}
	return c.JSON(http.StatusOK, resp)
}
