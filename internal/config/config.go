package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types

    "github.com/joho/godotenv" // godotenv loads a local .env file into the process environment
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
    Env             string // application environment (e.g. "dev", "prod")
    Port            string // HTTP port to listen on
    DBUser          string // database username
    DBPass          string // database password (optional)
    DBHost          string // database host address
    DBPort          string // database port number
    DBName          string // database name
    AccessSecret    string // secret used to sign access tokens
    RefreshSecret   string // secret used to sign refresh tokens (independent of AccessSecret)
    AccessTTLSec    int    // access token time-to-live in seconds
    RefreshTTLSec   int    // refresh token time-to-live in seconds
    PasswordCost    int    // bcrypt cost for password hashing
    RefreshHashCost int    // bcrypt cost for refresh-token fingerprints
    S3Region        string // object storage region (optional)
    S3Endpoint      string // object storage endpoint, e.g. a MinIO URL (optional)
    S3Bucket        string // bucket for profile photos; uploads are disabled when empty
    S3AccessKey     string // object storage access key
    S3SecretKey     string // object storage secret key
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is merged into the environment
// first, if present.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
    // Ignore the error: a missing .env file is fine in containerized deploys
    // where everything arrives via the real environment.
    _ = godotenv.Load()

    return Config{
        Env:             must("APP_ENV"),                           // environment (dev/test/prod)
        Port:            must("APP_PORT"),                          // port to bind the HTTP server
        DBUser:          must("DB_USER"),                           // database user
        DBPass:          os.Getenv("DB_PASS"),                      // database password (empty allowed)
        DBHost:          must("DB_HOST"),                           // database host
        DBPort:          must("DB_PORT"),                           // database port
        DBName:          must("DB_NAME"),                           // database name
        AccessSecret:    must("JWT_SECRET_KEY"),                    // signing key for access tokens
        RefreshSecret:   must("JWT_REFRESH_TOKEN_SECRET"),          // signing key for refresh tokens
        AccessTTLSec:    mustInt("JWT_ACCESS_TOKEN_EXPIRATION_TIME"),  // access TTL in seconds
        RefreshTTLSec:   mustInt("JWT_REFRESH_TOKEN_EXPIRATION_TIME"), // refresh TTL in seconds
        PasswordCost:    mustInt("SALT"),                           // bcrypt cost for passwords
        RefreshHashCost: envInt("REFRESH_HASH_COST", 10),           // bcrypt cost for refresh fingerprints
        S3Region:        os.Getenv("S3_REGION"),
        S3Endpoint:      os.Getenv("S3_ENDPOINT"),
        S3Bucket:        os.Getenv("S3_BUCKET"),
        S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
        S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
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

// envInt reads an optional integer variable, falling back to def when the
// variable is unset or malformed.
func envInt(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return n
}
