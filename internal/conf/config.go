// config.go: This file contains the configuration for the daycal application.
// It defines the settings struct and functions to load and save the settings.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/aurinko-app/daycal/internal/errors"
)

//go:embed config.yaml
var configFiles embed.FS

// Log rotation types
const (
	RotationDaily  = "daily"
	RotationWeekly = "weekly"
	RotationSize   = "size"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled  bool   // true to enable this log
	Path     string // Path to the log file
	Rotation string // Log rotation type
	MaxSize  int64  // Max size in bytes for RotationSize
}

// MainSettings contains general application settings
type MainSettings struct {
	Name      string    // name of the node
	TimeAs24h bool      // true for 24-hour time format
	Log       LogConfig // main log configuration
}

// AstroSettings contains the observer location for solar calculations
type AstroSettings struct {
	Latitude  float64 // latitude of the observer
	Longitude float64 // longitude of the observer
}

// ProviderSettings contains settings for the external photo provider
type ProviderSettings struct {
	BaseURL        string        // base URL of the photo API
	APIKey         string        // API access key
	RequestTimeout time.Duration // per-request timeout
	RateLimit      float64       // requests per second for background fetches
}

// ImageCacheSettings contains settings for the image metadata cache
type ImageCacheSettings struct {
	Path                 string           // cache directory, empty for platform default
	Debug                bool             // true to enable cache debug logging
	MaxConcurrentFetches int              // concurrent fetch limit
	PurgeSchedule        string           // cron expression for the expiry sweep
	Provider             ProviderSettings // photo provider settings
}

// Settings contains all application settings
type Settings struct {
	Debug bool // true to enable debug mode

	Main       MainSettings
	Astro      AstroSettings
	ImageCache ImageCacheSettings
}

// Load reads the configuration into a new Settings struct, creating a
// default config file if none exists.
func Load() (*Settings, error) {
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// initViper sets up viper with defaults, search paths and the config file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("fatal error reading config file: %w", err)
		}
		// Config file not found, create from the embedded default
		configPath, createErr := createDefaultConfig(configPaths)
		if createErr != nil {
			return createErr
		}
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading newly created config file: %w", err)
		}
	}

	return nil
}

// setDefaultConfig registers defaults so partial config files still unmarshal
// into a complete Settings struct.
func setDefaultConfig() {
	viper.SetDefault("debug", false)
	viper.SetDefault("main.name", "daycal")
	viper.SetDefault("main.timeas24h", true)
	viper.SetDefault("main.log.enabled", false)
	viper.SetDefault("main.log.path", "daycal.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 10*1024*1024)
	viper.SetDefault("astro.latitude", 0.0)
	viper.SetDefault("astro.longitude", 0.0)
	viper.SetDefault("imagecache.path", "")
	viper.SetDefault("imagecache.debug", false)
	viper.SetDefault("imagecache.maxconcurrentfetches", 4)
	viper.SetDefault("imagecache.purgeschedule", "@hourly")
	viper.SetDefault("imagecache.provider.baseurl", "https://api.unsplash.com")
	viper.SetDefault("imagecache.provider.apikey", "")
	viper.SetDefault("imagecache.provider.requesttimeout", 30*time.Second)
	viper.SetDefault("imagecache.provider.ratelimit", 2.0)
}

// ValidateSettings checks value ranges that viper cannot express.
func ValidateSettings(settings *Settings) error {
	if settings.Astro.Latitude < -90 || settings.Astro.Latitude > 90 {
		return errors.Newf("latitude %.4f out of range [-90, 90]", settings.Astro.Latitude).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	if settings.Astro.Longitude < -180 || settings.Astro.Longitude > 180 {
		return errors.Newf("longitude %.4f out of range [-180, 180]", settings.Astro.Longitude).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	if settings.ImageCache.MaxConcurrentFetches < 1 {
		return errors.Newf("maxconcurrentfetches must be at least 1, got %d", settings.ImageCache.MaxConcurrentFetches).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

// createDefaultConfig writes the embedded default config to the first
// usable config path and returns the resulting file path.
func createDefaultConfig(configPaths []string) (string, error) {
	if len(configPaths) == 0 {
		return "", errors.NewStd("no config paths available")
	}

	configPath := filepath.Join(configPaths[0], "config.yaml")

	defaultConfig, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return "", fmt.Errorf("error reading embedded default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("error creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, defaultConfig, 0o644); err != nil {
		return "", fmt.Errorf("error writing default config file: %w", err)
	}

	return configPath, nil
}

// GetDefaultConfigPaths returns the config file search paths in priority order.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error fetching user home directory: %w", err)
	}

	return []string{
		filepath.Join(homeDir, ".config", "daycal"),
		".",
	}, nil
}

// GetDefaultCacheDir returns the application-private image cache directory.
// The configured path wins when set.
func GetDefaultCacheDir(settings *Settings) (string, error) {
	if settings != nil && settings.ImageCache.Path != "" {
		return settings.ImageCache.Path, nil
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("error fetching user cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "daycal", "images"), nil
}
