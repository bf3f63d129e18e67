package category_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magazyn/category"
	"magazyn/database"
	"magazyn/loader"
	"magazyn/model"
)

func newTestRouter(t *testing.T) (*mux.Router, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, loader.InitDatabase(db))

	r := mux.NewRouter()
	r.HandleFunc("/api/categories", category.ListCategoriesHandler(db)).Methods(http.MethodGet)
	r.HandleFunc("/api/categories", category.CreateCategoryHandler(db)).Methods(http.MethodPost)
	r.HandleFunc("/api/categories/{id}", category.DeleteCategoryHandler(db)).Methods(http.MethodDelete)
	return r, db
}

func TestCreateCategoryValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"  "}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAndListCategories(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"Napoje","description":"Soki i wody"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Napoje"`)
}

func TestDeleteCategoryConflict(t *testing.T) {
	r, db := newTestRouter(t)

	cat, err := database.CreateCategory(db, &model.Category{Name: "Nabiał"})
	require.NoError(t, err)
	_, err = database.CreateProduct(db, &model.Product{
		Name: "Mleko", CategoryID: cat.ID, UnitPrice: 3.20, Quantity: 8,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/categories/1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The category is still there.
	_, err = database.GetCategory(db, cat.ID)
	assert.NoError(t, err)
}
