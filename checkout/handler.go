package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"magazyn/cart"
)

// ConfirmHandler runs the checkout for one session cart and returns the
// per-line report. The response is 200 only when every line committed
// and the cart was cleared; a partial result comes back as 409 so the
// session knows some lines need attention.
func ConfirmHandler(reg *cart.Registry, conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid cart id", http.StatusBadRequest)
			return
		}
		c, ok := reg.Get(id)
		if !ok {
			http.Error(w, "Cart not found", http.StatusNotFound)
			return
		}
		if len(c.Lines()) == 0 {
			http.Error(w, "Cart is empty", http.StatusBadRequest)
			return
		}

		result, err := Confirm(conn, c)
		if err != nil {
			log.Errorf("checkout failed for cart %s: %v", id, err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(result)
			return
		}

		status := http.StatusOK
		if !result.Cleared {
			status = http.StatusConflict
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(result)
	}
}
