package category

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

// ListCategoriesHandler returns all categories ordered by name with
// Polish collation, matching how the dashboard displays them.
func ListCategoriesHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := database.GetAllCategories(conn)
		if err != nil {
			log.Errorf("failed to list categories: %v", err)
			http.Error(w, "Failed to list categories", http.StatusInternalServerError)
			return
		}

		coll := collate.New(language.Polish)
		sort.Slice(categories, func(i, j int) bool {
			return coll.CompareString(categories[i].Name, categories[j].Name) < 0
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categories)
	}
}

func CreateCategoryHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.Category
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(input.Name) == "" {
			http.Error(w, "Category name must not be empty", http.StatusBadRequest)
			return
		}

		created, err := database.CreateCategory(conn, &input)
		if err != nil {
			log.Errorf("failed to create category: %v", err)
			http.Error(w, "Failed to create category", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func DeleteCategoryHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "Invalid category id", http.StatusBadRequest)
			return
		}

		err = database.DeleteCategory(conn, id)
		switch {
		case errors.Is(err, model.ErrReferentialIntegrity):
			http.Error(w, "Category still has products assigned to it", http.StatusConflict)
		case errors.Is(err, model.ErrNotFound):
			http.Error(w, "Category not found", http.StatusNotFound)
		case err != nil:
			log.Errorf("failed to delete category %d: %v", id, err)
			http.Error(w, "Failed to delete category", http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}
