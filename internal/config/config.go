package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-rankings/external/espn"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config stores runtime configuration for the reconciler.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	LogLevel                   logging.Level
	StorageDriver              string
	DataDir                    string
	DBURL                      string
	DBDisablePreparedBinary    bool
	MatchAcceptThreshold       float64
	MatchAutoSaveThreshold     float64
	MatchSuggestThreshold      float64
	MatchMaxWorkers            int
	CacheTTL                   time.Duration
	ESPNEnabled                bool
	ESPNBaseURL                string
	ESPNSeason                 int
	ESPNLeagueID               string
	ESPNTeamID                 string
	ESPNS2                     string
	ESPNSWID                   string
	ESPNTimeout                time.Duration
	ESPNMaxRetries             int
	ESPNCircuitEnabled         bool
	ESPNCircuitFailureCount    int
	ESPNCircuitOpenTimeout     time.Duration
	ESPNCircuitHalfOpenMaxReq  int
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	storageDriver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageFile)))
	if storageDriver != StorageFile && storageDriver != StoragePostgres {
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", storageDriver, StorageFile, StoragePostgres)
	}
	dataDir := strings.TrimSpace(getEnv("DATA_DIR", "./data"))
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storageDriver == StoragePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=postgres")
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	accept, err := getEnvAsFloat("MATCH_ACCEPT_THRESHOLD", 0.8)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_ACCEPT_THRESHOLD: %w", err)
	}
	autoSave, err := getEnvAsFloat("MATCH_AUTOSAVE_THRESHOLD", 0.9)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_AUTOSAVE_THRESHOLD: %w", err)
	}
	suggest, err := getEnvAsFloat("MATCH_SUGGEST_THRESHOLD", 0.4)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_SUGGEST_THRESHOLD: %w", err)
	}
	if !(suggest > 0 && suggest <= accept && accept <= autoSave && autoSave <= 1) {
		return Config{}, fmt.Errorf("match thresholds must satisfy 0 < suggest <= accept <= autosave <= 1 (got %.2f, %.2f, %.2f)", suggest, accept, autoSave)
	}
	maxWorkers, err := getEnvAsInt("MATCH_MAX_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_MAX_WORKERS: %w", err)
	}
	if maxWorkers < 1 {
		return Config{}, fmt.Errorf("MATCH_MAX_WORKERS must be >= 1")
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL < 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be >= 0")
	}

	espnEnabled, err := strconv.ParseBool(getEnv("ESPN_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_ENABLED: %w", err)
	}
	espnSeason, err := getEnvAsInt("ESPN_SEASON", time.Now().Year())
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_SEASON: %w", err)
	}
	espnTimeout, err := time.ParseDuration(getEnv("ESPN_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_TIMEOUT: %w", err)
	}
	if espnTimeout <= 0 {
		return Config{}, fmt.Errorf("ESPN_TIMEOUT must be > 0")
	}
	espnMaxRetries, err := getEnvAsInt("ESPN_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_MAX_RETRIES: %w", err)
	}
	if espnMaxRetries < 0 {
		return Config{}, fmt.Errorf("ESPN_MAX_RETRIES must be >= 0")
	}
	espnCircuitEnabled, err := strconv.ParseBool(getEnv("ESPN_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_ENABLED: %w", err)
	}
	espnCircuitFailureCount, err := getEnvAsInt("ESPN_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if espnCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("ESPN_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	espnCircuitOpenTimeout, err := time.ParseDuration(getEnv("ESPN_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if espnCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("ESPN_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	espnCircuitHalfOpenMaxReq, err := getEnvAsInt("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if espnCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "fantasy-rankings"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                   logLevel,
		StorageDriver:              storageDriver,
		DataDir:                    dataDir,
		DBURL:                      dbURL,
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		MatchAcceptThreshold:       accept,
		MatchAutoSaveThreshold:     autoSave,
		MatchSuggestThreshold:      suggest,
		MatchMaxWorkers:            maxWorkers,
		CacheTTL:                   cacheTTL,
		ESPNEnabled:                espnEnabled,
		ESPNBaseURL:                strings.TrimSpace(getEnv("ESPN_BASE_URL", "")),
		ESPNSeason:                 espnSeason,
		ESPNLeagueID:               strings.TrimSpace(getEnv("ESPN_LEAGUE_ID", "")),
		ESPNTeamID:                 strings.TrimSpace(getEnv("ESPN_TEAM_ID", "")),
		ESPNS2:                     strings.TrimSpace(getEnv("ESPN_S2", "")),
		ESPNSWID:                   strings.TrimSpace(getEnv("ESPN_SWID", "")),
		ESPNTimeout:                espnTimeout,
		ESPNMaxRetries:             espnMaxRetries,
		ESPNCircuitEnabled:         espnCircuitEnabled,
		ESPNCircuitFailureCount:    espnCircuitFailureCount,
		ESPNCircuitOpenTimeout:     espnCircuitOpenTimeout,
		ESPNCircuitHalfOpenMaxReq:  espnCircuitHalfOpenMaxReq,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if cfg.ESPNEnabled {
		if err := cfg.ESPNCredentials().Validate(); err != nil {
			return Config{}, fmt.Errorf("ESPN_* settings: %w", err)
		}
	}

	return cfg, nil
}

func (c Config) ESPNCredentials() espn.Credentials {
	return espn.Credentials{
		Season:   c.ESPNSeason,
		LeagueID: c.ESPNLeagueID,
		TeamID:   c.ESPNTeamID,
		S2:       c.ESPNS2,
		SWID:     c.ESPNSWID,
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseFloat(value, 64)
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
