package sales

import (
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"magazyn/database"
)

// ListSalesHandler returns the sales history, newest first. Records are
// written once at checkout and never mutated afterwards.
func ListSalesHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := database.GetAllSaleRecords(conn)
		if err != nil {
			log.Errorf("failed to list sale records: %v", err)
			http.Error(w, "Failed to list sale records", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}
}
