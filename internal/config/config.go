package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values, one field per
// environment variable.  Load exits the process when a required variable
// is missing, so a Config in hand is always complete.
type Config struct {
	Env          string // application environment (dev/test/prod)
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign admin JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for admin password hashing

	// Notification recipients per study location.  Empty values fall
	// back to whatever the publisher defaults to.
	NotifyAdminIWM      string
	NotifyAdminSaarland string

	// Optional bootstrap admin created when the admins table is empty.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads configuration from environment variables.  Required
// variables are enforced by must(); missing values abort startup.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),

		NotifyAdminIWM:      os.Getenv("NOTIFY_ADMIN_IWM"),
		NotifyAdminSaarland: os.Getenv("NOTIFY_ADMIN_SAARLAND"),

		SeedAdminEmail:    os.Getenv("ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must() plus integer conversion.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
