package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"wishlist-backend/internal/domain"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	DBUrl    string

	JWTSecret     string
	AllowedOrigin string
	FrontendURL   string

	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration

	// Guest store. When RedisAddr is empty the guest store falls back to
	// the in-process cache (single-instance deployments only).
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Cart collaborator
	CartServiceURL     string
	CartPageURL        string
	CartRequestTimeout time.Duration

	// Nonce lifetime for the mutation endpoints.
	NonceTTL time.Duration

	// Product summary cache
	CacheProductTTL time.Duration

	// Wishlist behavior settings, normalized to real types at load time.
	Wishlist domain.Settings
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev).
		// In docker/prod envs .env might not exist and we rely on system
		// env vars, so this is not an error.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DBUrl:    getEnv("DB_DSN", ""),

		JWTSecret:     getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),

		AccessTokenExpiry:  getDurationEnv("ACCESS_TOKEN_EXPIRY", time.Hour*24),    // Default 24h
		RefreshTokenExpiry: getDurationEnv("REFRESH_TOKEN_EXPIRY", time.Hour*24*7), // Default 7d

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		CartServiceURL:     getEnv("CART_SERVICE_URL", ""),
		CartPageURL:        getEnv("CART_PAGE_URL", "http://localhost:3000/cart"),
		CartRequestTimeout: getDurationEnv("CART_REQUEST_TIMEOUT", 10*time.Second),

		NonceTTL: getDurationEnv("NONCE_TTL", 12*time.Hour),

		CacheProductTTL: getDurationEnv("CACHE_PRODUCT_TTL", 10*time.Minute),
	}

	cfg.Wishlist = loadWishlistSettings(cfg.FrontendURL)

	cfg.Validate()
	return cfg
}

// loadWishlistSettings reads the behavior toggles. Boolean-like values are
// normalized here, at the loading boundary; nothing downstream compares
// raw strings.
func loadWishlistSettings(frontendURL string) domain.Settings {
	action := getEnv("WISHLIST_BUTTON_ACTION", domain.ButtonActionPopup)
	valid := false
	for _, a := range domain.ButtonActions {
		if a == action {
			valid = true
			break
		}
	}
	if !valid {
		log.Printf("Invalid WISHLIST_BUTTON_ACTION %q, using %q", action, domain.ButtonActionPopup)
		action = domain.ButtonActionPopup
	}

	guestDays := getIntEnv("GUEST_WISHLIST_DELETE_DAYS", 30)
	if guestDays <= 0 {
		guestDays = 30
	}

	return domain.Settings{
		RemoveOnSecondClick: getBoolEnv("WISHLIST_REMOVE_ON_SECOND_CLICK", false),
		RemoveIfAddedToCart: getBoolEnv("WISHLIST_REMOVE_IF_ADDED_TO_CART", true),
		RedirectToCart:      getBoolEnv("WISHLIST_REDIRECT_TO_CART", true),
		ButtonAction:        action,
		ShowButtonIcon:      getBoolEnv("WISHLIST_BUTTON_ICON", true),
		GuestTTL:            time.Duration(guestDays) * 24 * time.Hour,
		WishlistPageURL:     getEnv("WISHLIST_PAGE_URL", frontendURL+"/wishlist"),
		Texts: domain.NoticeTexts{
			AddedToWishlist:     getEnv("WISHLIST_TEXT_ADDED", "{product_name} has been added to your wishlist."),
			AlreadyInWishlist:   getEnv("WISHLIST_TEXT_ALREADY", "{product_name} is already in your wishlist."),
			RemovedFromWishlist: getEnv("WISHLIST_TEXT_REMOVED", "{product_name} has been removed from your wishlist."),
			RemovedUndo:         getEnv("WISHLIST_TEXT_REMOVED_UNDO", "{product_name} removed."),
			GuestReminder:       getEnv("WISHLIST_TEXT_GUEST_REMINDER", "Your wishlist will be saved for {guest_session_in_days} days. Log in to keep it forever."),
			ViewWishlist:        getEnv("WISHLIST_TEXT_VIEW", "View Wishlist"),
			Undo:                getEnv("WISHLIST_TEXT_UNDO", "Undo?"),
		},
	}
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	if c.RedisAddr == "" {
		log.Println("WARNING: REDIS_ADDR not set, guest wishlists use the in-process store")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}
