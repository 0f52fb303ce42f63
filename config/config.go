package config

import (
	"fmt"
	"waugzee/internal/logger"

	"github.com/spf13/viper"
)

// Config is loaded once at startup by New and handed to every component
// that needs it, the same "bind env, fall back to .env files, unmarshal
// once" shape the teacher's InitConfig uses.
type Config struct {
	GeneralVersion string `mapstructure:"GENERAL_VERSION"`
	Environment    string `mapstructure:"ENVIRONMENT"`
	ServerPort     int    `mapstructure:"SERVER_PORT"`
	ServerURL      string `mapstructure:"SERVER_URL"`

	DatabaseHost     string `mapstructure:"DB_HOST"`
	DatabasePort     int    `mapstructure:"DB_PORT"`
	DatabaseName     string `mapstructure:"DB_NAME"`
	DatabaseUser     string `mapstructure:"DB_USER"`
	DatabasePassword string `mapstructure:"DB_PASSWORD"`

	CacheAddress string `mapstructure:"CACHE_ADDRESS"`
	CachePort    int    `mapstructure:"CACHE_PORT"`
	CacheEnabled bool   `mapstructure:"CACHE_ENABLED"`

	// CacheTTLSeconds is read from the environment and reported on the admin
	// stats endpoint; no response cache or refresh decision reads it.
	CacheTTLSeconds int `mapstructure:"CACHE_TTL_SECONDS"`
	CacheMaxSize    int `mapstructure:"CACHE_MAX_SIZE"`

	// ArtistTTLDays is read from the environment but does not drive refresh:
	// staleness checks use the fixed 30-day store.ArtistNeedsRefreshTTL.
	ArtistTTLDays   int `mapstructure:"ARTIST_TTL_DAYS"`
	BulkRefreshDays int `mapstructure:"BULK_REFRESH_DAYS"`

	// CanonicalBaseURL overrides the canonical provider's base URL, e.g. to
	// point at a self-hosted mirror. CanonicalMinIntervalMS overrides its
	// rate floor; 0 disables the floor.
	CanonicalBaseURL       string `mapstructure:"CANONICAL_BASE_URL"`
	CanonicalMinIntervalMS int    `mapstructure:"CANONICAL_MIN_INTERVAL_MS"`
	CanonicalUserAgent     string `mapstructure:"CANONICAL_USER_AGENT"`

	TheAudioDBBaseURL       string `mapstructure:"THEAUDIODB_BASE_URL"`
	TheAudioDBAPIKey        string `mapstructure:"THEAUDIODB_API_KEY"`
	TheAudioDBMinIntervalMS int    `mapstructure:"THEAUDIODB_MIN_INTERVAL_MS"`

	CoverArtArchiveBaseURL       string `mapstructure:"COVERART_BASE_URL"`
	CoverArtArchiveMinIntervalMS int    `mapstructure:"COVERART_MIN_INTERVAL_MS"`

	CORSAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`
	SecurityJwtSecret string `mapstructure:"SECURITY_JWT_SECRET"`

	ImageStorageDir string `mapstructure:"IMAGE_STORAGE_DIR"`

	// AlbumTypes and ReleaseStatuses are comma-separated user filters (§
	// "Filters"); empty means "no filter, everything matches" rather than
	// "nothing matches".
	AlbumTypes      string `mapstructure:"ALBUM_TYPES"`
	ReleaseStatuses string `mapstructure:"RELEASE_STATUSES"`
}

var ConfigInstance Config

// New loads configuration exactly the way the teacher's InitConfig does:
// bind known env vars first, fall back to .env/.env.local files only when
// the key env vars aren't already present, then unmarshal once.
func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "SERVER_URL",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"CACHE_ADDRESS", "CACHE_PORT", "CACHE_ENABLED",
		"CACHE_TTL_SECONDS", "CACHE_MAX_SIZE",
		"ARTIST_TTL_DAYS", "BULK_REFRESH_DAYS",
		"CANONICAL_BASE_URL", "CANONICAL_MIN_INTERVAL_MS", "CANONICAL_USER_AGENT",
		"THEAUDIODB_BASE_URL", "THEAUDIODB_API_KEY", "THEAUDIODB_MIN_INTERVAL_MS",
		"COVERART_BASE_URL", "COVERART_MIN_INTERVAL_MS",
		"CORS_ALLOW_ORIGINS", "SECURITY_JWT_SECRET", "IMAGE_STORAGE_DIR",
		"ALBUM_TYPES", "RELEASE_STATUSES",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("SECURITY_JWT_SECRET")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	applyDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	log.Info("Successfully initialized config", "config", config)
	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}
	return ConfigInstance, nil
}

func applyDefaults() {
	viper.SetDefault("CACHE_ENABLED", true)
	viper.SetDefault("CACHE_TTL_SECONDS", 86400)
	viper.SetDefault("CACHE_MAX_SIZE", 10000)
	viper.SetDefault("ARTIST_TTL_DAYS", 30)
	viper.SetDefault("BULK_REFRESH_DAYS", 90)
	viper.SetDefault("IMAGE_STORAGE_DIR", "./data/images")
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Err(
			"Fatal error: invalid server port",
			fmt.Errorf("invalid port: %d", config.ServerPort),
			"port", config.ServerPort,
		)
	}

	ConfigInstance = config
	return nil
}
