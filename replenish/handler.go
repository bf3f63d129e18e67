package replenish

import (
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"magazyn/config"
	"magazyn/database"
)

// ListLowStockHandler returns the products currently flagged by the
// configured threshold.
func ListLowStockHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings := config.GetSettings()
		products, err := database.GetLowStockProducts(conn, settings.LowStockThreshold)
		if err != nil {
			log.Errorf("failed to list low-stock products: %v", err)
			http.Error(w, "Failed to list low-stock products", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"threshold": settings.LowStockThreshold,
			"products":  products,
		})
	}
}

// RunHandler triggers a bulk replenishment with the configured threshold
// and restock level.
func RunHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings := config.GetSettings()
		summary, err := Run(conn, settings.LowStockThreshold, settings.RestockLevel)
		if err != nil {
			log.Errorf("replenishment run failed: %v", err)
			http.Error(w, "Replenishment run failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}
