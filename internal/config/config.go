package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
//
// Two database URLs are supported.  DatabaseURL is the restricted connection
// used for ordinary inventory operations.  ServiceDatabaseURL is the
// privileged connection used for schema setup and user administration.  When
// the privileged URL is not set, the restricted one is reused.
type Config struct {
	Env                string // application environment (e.g. "dev", "prod")
	Port               string // HTTP port to listen on
	DatabaseURL        string // Postgres connection URL for ordinary operations
	ServiceDatabaseURL string // privileged Postgres connection URL (optional)
	JWTSecret          string // secret used to sign JWTs
	AccessTTLMin       int    // access token time‑to‑live in minutes
	RefreshTTLDays     int    // refresh token time‑to‑live in days
	BcryptCost         int    // bcrypt cost for password hashing
	InitialAdminPass   string // password for the seeded admin account (optional)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:                must("APP_ENV"),                   // environment (dev/test/prod)
		Port:               must("APP_PORT"),                  // port to bind the HTTP server
		DatabaseURL:        must("DATABASE_URL"),              // restricted connection tier
		ServiceDatabaseURL: os.Getenv("SERVICE_DATABASE_URL"), // privileged connection tier (empty allowed)
		JWTSecret:          must("JWT_SECRET"),                // secret used for signing JWTs
		AccessTTLMin:       mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
		RefreshTTLDays:     mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		BcryptCost:         mustInt("BCRYPT_COST"),            // bcrypt cost factor
		InitialAdminPass:   os.Getenv("INITIAL_ADMIN_PASSWORD"),
	}
	if cfg.ServiceDatabaseURL == "" {
		cfg.ServiceDatabaseURL = cfg.DatabaseURL
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
