package config

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// Env holds process-level settings resolved once at startup.
type Env struct {
	Addr   string `envconfig:"ADDR" default:":8080"`
	DBPath string `envconfig:"DB_PATH" default:"./magazyn.db"`
}

// LoadEnv reads MAGAZYN_* environment variables.
func LoadEnv() (Env, error) {
	var e Env
	if err := envconfig.Process("magazyn", &e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// Settings are runtime-editable via the config endpoint and persisted to
// a JSON file next to the binary.
type Settings struct {
	// LowStockThreshold flags products with quantity at or below it.
	LowStockThreshold int `json:"lowStockThreshold"`
	// RestockLevel is the quantity flagged products are restocked to.
	RestockLevel int `json:"restockLevel"`
}

const (
	DefaultLowStockThreshold = 5
	DefaultRestockLevel      = 50
)

var (
	settings Settings
	mu       sync.RWMutex
)

var settingsFilePath = "./magazyn_config.json"

func defaultSettings() Settings {
	return Settings{
		LowStockThreshold: DefaultLowStockThreshold,
		RestockLevel:      DefaultRestockLevel,
	}
}

func applyDefaults(s *Settings) {
	if s.LowStockThreshold == 0 {
		s.LowStockThreshold = DefaultLowStockThreshold
	}
	if s.RestockLevel == 0 {
		s.RestockLevel = DefaultRestockLevel
	}
}

// LoadSettings reads the settings file. On any failure the in-memory
// settings fall back to the defaults, so an unreadable or corrupt file
// never leaves the process running with zero threshold and restock
// level.
func LoadSettings() (Settings, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(settingsFilePath)
	if err != nil {
		settings = defaultSettings()
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}

	var tmp Settings
	if err := json.Unmarshal(file, &tmp); err != nil {
		settings = defaultSettings()
		return settings, err
	}
	applyDefaults(&tmp)
	settings = tmp

	return settings, nil
}

func SaveSettings(newSettings Settings) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newSettings)

	file, err := json.MarshalIndent(newSettings, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(settingsFilePath, file, 0644); err != nil {
		return err
	}
	settings = newSettings
	return nil
}

func GetSettings() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return settings
}
