package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"magazyn/database"
	"magazyn/model"
)

type cartView struct {
	ID    uuid.UUID        `json:"id"`
	Lines []model.CartLine `json:"lines"`
	Total float64          `json:"total"`
}

func viewOf(c *Cart) cartView {
	return cartView{ID: c.ID(), Lines: c.Lines(), Total: c.Total()}
}

func cartFromRequest(reg *Registry, w http.ResponseWriter, r *http.Request) (*Cart, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid cart id", http.StatusBadRequest)
		return nil, false
	}
	c, ok := reg.Get(id)
	if !ok {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return nil, false
	}
	return c, true
}

// CreateCartHandler opens a new session cart and returns its handle.
func CreateCartHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := reg.Create()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(viewOf(c))
	}
}

func GetCartHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := cartFromRequest(reg, w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(viewOf(c))
	}
}

// ClearCartHandler empties the cart without touching the store. The
// cart handle stays valid.
func ClearCartHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := cartFromRequest(reg, w, r)
		if !ok {
			return
		}
		c.Clear()
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveCartHandler discards the session cart entirely, releasing its
// registry slot. Pending lines are dropped without store mutations.
func RemoveCartHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := cartFromRequest(reg, w, r)
		if !ok {
			return
		}
		reg.Remove(c.ID())
		w.WriteHeader(http.StatusNoContent)
	}
}

// AddLineHandler fetches a fresh stock snapshot for the chosen product
// and validates the requested quantity against it, counting lines the
// cart already holds for the same product.
func AddLineHandler(reg *Registry, conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := cartFromRequest(reg, w, r)
		if !ok {
			return
		}

		var input struct {
			ProductID int64 `json:"productId"`
			Quantity  int   `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		p, err := database.GetProduct(conn, input.ProductID)
		if errors.Is(err, model.ErrNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Errorf("failed to get product %d: %v", input.ProductID, err)
			http.Error(w, "Failed to read product", http.StatusInternalServerError)
			return
		}

		line, err := c.AddLine(p, input.Quantity)
		var validation *model.ValidationError
		var capacity *model.CapacityExceededError
		switch {
		case errors.As(err, &validation):
			http.Error(w, validation.Error(), http.StatusBadRequest)
			return
		case errors.As(err, &capacity):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":     capacity.Error(),
				"available": capacity.Available,
			})
			return
		case err != nil:
			log.Errorf("failed to add cart line: %v", err)
			http.Error(w, "Failed to add cart line", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(line)
	}
}
