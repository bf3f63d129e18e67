package product

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"magazyn/database"
	"magazyn/model"
)

type createInput struct {
	Name       string  `json:"name"`
	CategoryID int64   `json:"categoryId"`
	UnitPrice  float64 `json:"unitPrice"`
	Quantity   int     `json:"quantity"`
}

func (in *createInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &model.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if in.UnitPrice < 0 {
		return &model.ValidationError{Field: "unitPrice", Reason: "must not be negative"}
	}
	if in.Quantity < 0 {
		return &model.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	return nil
}

// ListProductsHandler returns all products joined with their category
// name, ordered by product name with Polish collation.
func ListProductsHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := database.GetAllProducts(conn)
		if err != nil {
			log.Errorf("failed to list products: %v", err)
			http.Error(w, "Failed to list products", http.StatusInternalServerError)
			return
		}

		coll := collate.New(language.Polish)
		sort.Slice(products, func(i, j int) bool {
			return coll.CompareString(products[i].Name, products[j].Name) < 0
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
	}
}

func GetProductHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "Invalid product id", http.StatusBadRequest)
			return
		}

		p, err := database.GetProduct(conn, id)
		if errors.Is(err, model.ErrNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Errorf("failed to get product %d: %v", id, err)
			http.Error(w, "Failed to get product", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

func CreateProductHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input createInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := input.validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// The category must exist before the insert is attempted.
		if _, err := database.GetCategory(conn, input.CategoryID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				http.Error(w, "Category does not exist", http.StatusBadRequest)
				return
			}
			log.Errorf("failed to check category %d: %v", input.CategoryID, err)
			http.Error(w, "Failed to create product", http.StatusInternalServerError)
			return
		}

		created, err := database.CreateProduct(conn, &model.Product{
			Name:       input.Name,
			CategoryID: input.CategoryID,
			UnitPrice:  input.UnitPrice,
			Quantity:   input.Quantity,
		})
		if err != nil {
			log.Errorf("failed to create product: %v", err)
			http.Error(w, "Failed to create product", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func UpdateProductHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "Invalid product id", http.StatusBadRequest)
			return
		}

		var upd database.ProductUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
			http.Error(w, "Product name must not be empty", http.StatusBadRequest)
			return
		}
		if upd.UnitPrice != nil && *upd.UnitPrice < 0 {
			http.Error(w, "Unit price must not be negative", http.StatusBadRequest)
			return
		}
		if upd.Quantity != nil && *upd.Quantity < 0 {
			http.Error(w, "Quantity must not be negative", http.StatusBadRequest)
			return
		}

		updated, err := database.UpdateProduct(conn, id, upd)
		if errors.Is(err, model.ErrNotFound) {
			http.Error(w, "Product or category not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Errorf("failed to update product %d: %v", id, err)
			http.Error(w, "Failed to update product", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteProductHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "Invalid product id", http.StatusBadRequest)
			return
		}

		err = database.DeleteProduct(conn, id)
		if errors.Is(err, model.ErrNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Errorf("failed to delete product %d: %v", id, err)
			http.Error(w, "Failed to delete product", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
