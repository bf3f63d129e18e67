package main

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"magazyn/config"
)

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// GetConfigHandler returns the current runtime settings.
func GetConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(config.GetSettings())
	}
}

// SaveConfigHandler persists new runtime settings.
func SaveConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var newSettings config.Settings
		if err := json.NewDecoder(r.Body).Decode(&newSettings); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if newSettings.LowStockThreshold < 0 {
			writeJSONError(w, "Low-stock threshold must not be negative", http.StatusBadRequest)
			return
		}
		if newSettings.RestockLevel < 0 {
			writeJSONError(w, "Restock level must not be negative", http.StatusBadRequest)
			return
		}
		if newSettings.RestockLevel != 0 && newSettings.RestockLevel <= newSettings.LowStockThreshold {
			writeJSONError(w, "Restock level must be above the low-stock threshold", http.StatusBadRequest)
			return
		}

		if err := config.SaveSettings(newSettings); err != nil {
			log.Errorf("failed to save settings: %v", err)
			writeJSONError(w, "Failed to save settings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Settings saved"})
	}
}
