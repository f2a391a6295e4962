package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cointracker/db"
	"cointracker/models"
	"cointracker/store"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Transaction{}))
	return gdb
}

// newTestApp wires the routes the way main does, against an in-memory
// database. prices may be nil when a test only exercises the CRUD routes.
func newTestApp(t *testing.T, prices PriceLookup) (*echo.Echo, *gorm.DB) {
	t.Helper()

	gdb := newTestDB(t)
	e := echo.New()

	txStore := store.NewTransactionStore()
	txHandler := NewTransactionHandler(txStore)

	transactions := e.Group("/transactions", db.Transactional(gdb))
	transactions.GET("/", txHandler.ListTransactions)
	transactions.POST("/", txHandler.CreateTransaction)
	transactions.GET("/:id", txHandler.GetTransaction)
	transactions.PUT("/:id", txHandler.UpdateTransaction)
	transactions.DELETE("/:id", txHandler.DeleteTransaction)

	if prices != nil {
		cryptoHandler := NewCryptoHandler(prices, txStore)
		crypto := e.Group("/crypto", db.Transactional(gdb))
		crypto.GET("/:crypto_name", cryptoHandler.GetCryptoPrice)
	}

	return e, gdb
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
