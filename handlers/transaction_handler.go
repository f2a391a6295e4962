package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"cointracker/db"
	"cointracker/store"
)

const maxCryptoNameLen = 50

type TransactionHandler struct {
	store *store.TransactionStore
}

func NewTransactionHandler(s *store.TransactionStore) *TransactionHandler {
	return &TransactionHandler{
		store: s,
	}
}

// CreateTransactionRequest keeps price_usd a pointer so an omitted
// field is rejected rather than silently persisted as zero.
type CreateTransactionRequest struct {
	CryptoName string   `json:"crypto_name"`
	Amount     float64  `json:"amount"`
	PriceUSD   *float64 `json:"price_usd"`
}

// UpdateTransactionRequest distinguishes "field absent" from "field set
// to zero" with pointer fields, so a partial body only touches what it
// names.
type UpdateTransactionRequest struct {
	CryptoName *string  `json:"crypto_name"`
	Amount     *float64 `json:"amount"`
	PriceUSD   *float64 `json:"price_usd"`
}

// CreateTransaction handles POST /transactions/
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if req.CryptoName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "crypto_name is required",
		})
	}
	if len(req.CryptoName) > maxCryptoNameLen {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "crypto_name must be at most 50 characters",
		})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "amount must be greater than zero",
		})
	}
	if req.PriceUSD == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "price_usd is required",
		})
	}

	tx, err := h.store.Create(db.SessionFromContext(c), req.CryptoName, req.Amount, *req.PriceUSD)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to create transaction",
		})
	}
	return c.JSON(http.StatusOK, tx)
}

// ListTransactions handles GET /transactions/?skip=&limit=
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "skip must be a non-negative integer",
		})
	}
	limit, err := queryInt(c, "limit", 100)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "limit must be a non-negative integer",
		})
	}

	txs, err := h.store.List(db.SessionFromContext(c), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list transactions",
		})
	}
	return c.JSON(http.StatusOK, txs)
}

// GetTransaction handles GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return transactionNotFound(c)
	}

	tx, err := h.store.GetByID(db.SessionFromContext(c), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return transactionNotFound(c)
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to fetch transaction",
		})
	}
	return c.JSON(http.StatusOK, tx)
}

// UpdateTransaction handles PUT /transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return transactionNotFound(c)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	// Supplied fields get the same validation as create.
	if req.CryptoName != nil {
		if *req.CryptoName == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "crypto_name is required",
			})
		}
		if len(*req.CryptoName) > maxCryptoNameLen {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "crypto_name must be at most 50 characters",
			})
		}
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "amount must be greater than zero",
		})
	}

	tx, err := h.store.Update(db.SessionFromContext(c), id, store.TransactionPatch{
		CryptoName: req.CryptoName,
		Amount:     req.Amount,
		PriceUSD:   req.PriceUSD,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return transactionNotFound(c)
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to update transaction",
		})
	}
	return c.JSON(http.StatusOK, tx)
}

// DeleteTransaction handles DELETE /transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return transactionNotFound(c)
	}

	tx, err := h.store.Delete(db.SessionFromContext(c), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return transactionNotFound(c)
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to delete transaction",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Transaction deleted successfully",
		"transaction": tx,
	})
}

func transactionNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]string{
		"detail": "Transaction not found",
	})
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New("invalid query parameter " + name)
	}
	return v, nil
}
