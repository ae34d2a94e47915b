package config // package config loads application configuration from environment variables

import (
    "log"     // log reports configuration errors and halts execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Anything optional carries a default so
// the service can start against a local docker-compose stack with only
// the required variables set.
type Config struct {
    Env          string // application environment (dev, prod)
    Port         string // HTTP port to listen on
    DBUser       string // database username
    DBPass       string // database password (optional)
    DBHost       string // database host address
    DBPort       string // database port number
    DBName       string // database name
    JWTSecret    string // secret used to sign admin session JWTs
    AccessTTLMin int    // session token time-to-live in minutes

    // Pluggable authentication (see internal/auth).  When AdminPassHash
    // is empty the permissive authenticator is used, which accepts any
    // non-empty credential pair.
    AdminEmail    string // admin identity for the static authenticator
    AdminPassHash string // bcrypt hash of the admin password

    FlightsAPIURL    string // base URL of the external flights backend
    AssignmentAPIURL string // flight-assignment submission endpoint ("" disables commit delivery)
    SyncSource       string // data-source label recorded on sync runs
}

// Load reads configuration from the environment.  Required variables
// are enforced by must(); a missing one exits with a fatal log message.
func Load() Config {
    return Config{
        Env:          must("APP_ENV"),
        Port:         must("APP_PORT"),
        DBUser:       must("DB_USER"),
        DBPass:       os.Getenv("DB_PASS"), // empty allowed
        DBHost:       must("DB_HOST"),
        DBPort:       must("DB_PORT"),
        DBName:       must("DB_NAME"),
        JWTSecret:    must("JWT_SECRET"),
        AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),

        AdminEmail:    getenv("ADMIN_EMAIL", "admin@logisticair.local"),
        AdminPassHash: os.Getenv("ADMIN_PASSWORD_HASH"),

        FlightsAPIURL:    getenv("FLIGHTS_API_URL", "http://localhost:3001"),
        AssignmentAPIURL: os.Getenv("ASSIGNMENT_API_URL"),
        SyncSource:       getenv("SYNC_DATA_SOURCE", "SerpAPI (Google Flights) + internal airline system"),
    }
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
