package config // package config loads application configuration from environment variables

import (
	"fmt"     // fmt formats configuration errors
	"os"      // os provides access to environment variables
	"strings" // strings splits and trims list-valued variables
)

// Seed modes accepted by CATALOG_SEED_MODE.
const (
	SeedModeEnsure = "ensure"
	SeedModeReset  = "reset"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Optional infrastructure (Redis, RabbitMQ) has
// its own loader so it can be configured and tested separately.
type Config struct {
	Env         string   // application environment (e.g. "dev", "prod")
	Port        string   // HTTP port to listen on
	DBURL       string   // store connection string (MySQL DSN)
	DBName      string   // store database name; overrides the DSN database
	CORSOrigins []string // permitted cross-origin request sources
	SeedMode    string   // catalog seed mode: ensure or reset
	LogLevel    string   // logrus level name
	LogFormat   string   // json or text
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing required variables are reported together in a single
// error so the operator can fix them in one pass.
func Load() (Config, error) {
	var missing []string
	required := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
		return strings.TrimSpace(v)
	}

	cfg := Config{
		Env:         envStr("APP_ENV", "dev"),
		Port:        envStr("APP_PORT", "8001"),
		DBURL:       required("DB_URL"),
		DBName:      required("DB_NAME"),
		CORSOrigins: ParseOrigins(os.Getenv("CORS_ORIGINS")),
		SeedMode:    parseSeedMode(os.Getenv("CATALOG_SEED_MODE")),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		LogFormat:   strings.ToLower(envStr("LOG_FORMAT", "json")),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// ParseOrigins splits a comma-separated origin list.  Blank entries are
// dropped; an empty list means every origin is permitted.
func ParseOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseSeedMode(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), SeedModeReset) {
		return SeedModeReset
	}
	return SeedModeEnsure
}
