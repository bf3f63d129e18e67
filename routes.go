package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"magazyn/cart"
	"magazyn/category"
	"magazyn/checkout"
	"magazyn/dashboard"
	"magazyn/product"
	"magazyn/replenish"
	"magazyn/sales"
)

// SetupRoutes wires every API surface onto one router.
func SetupRoutes(dbConn *sqlx.DB, carts *cart.Registry) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/categories", category.ListCategoriesHandler(dbConn)).Methods(http.MethodGet)
	api.HandleFunc("/categories", category.CreateCategoryHandler(dbConn)).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", category.DeleteCategoryHandler(dbConn)).Methods(http.MethodDelete)

	api.HandleFunc("/products", product.ListProductsHandler(dbConn)).Methods(http.MethodGet)
	api.HandleFunc("/products", product.CreateProductHandler(dbConn)).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", product.GetProductHandler(dbConn)).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", product.UpdateProductHandler(dbConn)).Methods(http.MethodPatch)
	api.HandleFunc("/products/{id}", product.DeleteProductHandler(dbConn)).Methods(http.MethodDelete)

	api.HandleFunc("/cart", cart.CreateCartHandler(carts)).Methods(http.MethodPost)
	api.HandleFunc("/cart/{id}", cart.GetCartHandler(carts)).Methods(http.MethodGet)
	api.HandleFunc("/cart/{id}", cart.RemoveCartHandler(carts)).Methods(http.MethodDelete)
	api.HandleFunc("/cart/{id}/lines", cart.AddLineHandler(carts, dbConn)).Methods(http.MethodPost)
	api.HandleFunc("/cart/{id}/lines", cart.ClearCartHandler(carts)).Methods(http.MethodDelete)
	api.HandleFunc("/cart/{id}/checkout", checkout.ConfirmHandler(carts, dbConn)).Methods(http.MethodPost)

	api.HandleFunc("/replenish/low", replenish.ListLowStockHandler(dbConn)).Methods(http.MethodGet)
	api.HandleFunc("/replenish/run", replenish.RunHandler(dbConn)).Methods(http.MethodPost)

	api.HandleFunc("/sales", sales.ListSalesHandler(dbConn)).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", dashboard.SummaryHandler(dbConn)).Methods(http.MethodGet)

	api.HandleFunc("/config", GetConfigHandler()).Methods(http.MethodGet)
	api.HandleFunc("/config", SaveConfigHandler()).Methods(http.MethodPost)

	return logMiddleware(r)
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL.Path,
			"remoteAddr": r.RemoteAddr,
		}).Info("request")
		h.ServeHTTP(w, r)
	})
}
