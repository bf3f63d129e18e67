package cart_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magazyn/cart"
	"magazyn/database"
	"magazyn/loader"
	"magazyn/model"
)

func newTestRouter(t *testing.T) (*mux.Router, *sqlx.DB, *cart.Registry) {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, loader.InitDatabase(db))

	reg := cart.NewRegistry()
	r := mux.NewRouter()
	r.HandleFunc("/api/cart", cart.CreateCartHandler(reg)).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/{id}", cart.GetCartHandler(reg)).Methods(http.MethodGet)
	r.HandleFunc("/api/cart/{id}", cart.RemoveCartHandler(reg)).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/{id}/lines", cart.AddLineHandler(reg, db)).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/{id}/lines", cart.ClearCartHandler(reg)).Methods(http.MethodDelete)
	return r, db, reg
}

func mustParse(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func createCart(t *testing.T, r *mux.Router) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.ID
}

func TestAddLineOverCapacity(t *testing.T) {
	r, db, _ := newTestRouter(t)

	cat, err := database.CreateCategory(db, &model.Category{Name: "Napoje"})
	require.NoError(t, err)
	p, err := database.CreateProduct(db, &model.Product{
		Name: "Woda", CategoryID: cat.ID, UnitPrice: 2.00, Quantity: 4,
	})
	require.NoError(t, err)

	cartID := createCart(t, r)
	linesURL := fmt.Sprintf("/api/cart/%s/lines", cartID)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, linesURL,
		strings.NewReader(fmt.Sprintf(`{"productId":%d,"quantity":3}`, p.ID))))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, linesURL,
		strings.NewReader(fmt.Sprintf(`{"productId":%d,"quantity":3}`, p.ID))))
	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Available int `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Available)

	// The rejected add did not grow the cart.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart/"+cartID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Lines []model.CartLine `json:"lines"`
		Total float64          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view.Lines, 1)
	assert.Equal(t, 6.0, view.Total)
}

func TestAddLineRejectsNonPositiveQuantity(t *testing.T) {
	r, db, _ := newTestRouter(t)

	cat, err := database.CreateCategory(db, &model.Category{Name: "Napoje"})
	require.NoError(t, err)
	p, err := database.CreateProduct(db, &model.Product{
		Name: "Sok", CategoryID: cat.ID, UnitPrice: 5.00, Quantity: 4,
	})
	require.NoError(t, err)

	cartID := createCart(t, r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/cart/%s/lines", cartID),
		strings.NewReader(fmt.Sprintf(`{"productId":%d,"quantity":0}`, p.ID))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearCartEndpoint(t *testing.T) {
	r, db, reg := newTestRouter(t)

	cat, err := database.CreateCategory(db, &model.Category{Name: "Napoje"})
	require.NoError(t, err)
	p, err := database.CreateProduct(db, &model.Product{
		Name: "Woda", CategoryID: cat.ID, UnitPrice: 2.00, Quantity: 4,
	})
	require.NoError(t, err)

	cartID := createCart(t, r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/cart/%s/lines", cartID),
		strings.NewReader(fmt.Sprintf(`{"productId":%d,"quantity":2}`, p.ID))))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/cart/%s/lines", cartID), nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Clearing touched no persisted data.
	got, err := database.GetProduct(db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)

	// The cart handle survives a clear.
	stored, ok := reg.Get(mustParse(t, cartID))
	require.True(t, ok)
	assert.Empty(t, stored.Lines())
}

func TestRemoveCartEndpoint(t *testing.T) {
	r, _, reg := newTestRouter(t)

	cartID := createCart(t, r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cart/"+cartID, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The registry slot is released; the handle is gone.
	_, ok := reg.Get(mustParse(t, cartID))
	assert.False(t, ok)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart/"+cartID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
