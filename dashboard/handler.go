package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"magazyn/database"
)

// SummaryHandler computes the metrics strip: total units on hand, total
// stock value and category count, fresh from the store on every call.
func SummaryHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := database.GetDashboardSummary(conn)
		if err != nil {
			log.Errorf("failed to compute dashboard summary: %v", err)
			http.Error(w, "Failed to compute dashboard summary", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}
