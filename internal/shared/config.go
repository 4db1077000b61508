package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	AmadeusBase   string
	AmadeusID     string
	AmadeusSecret string

	DeepSeekBase  string
	DeepSeekKey   string
	DeepSeekModel string

	DataDir   string
	ExportDir string

	BatchSize        int
	BatchTimeout     time.Duration
	ScoreConcurrency int
	TopK             int
	RadiusMiles      int
	EvidenceSeed     int64
	CacheTTL         time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    mysqlDSN(env("MYSQL_DSN", "")),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		AmadeusBase:   env("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
		AmadeusID:     env("AMADEUS_CLIENT_ID", ""),
		AmadeusSecret: env("AMADEUS_CLIENT_SECRET", ""),

		DeepSeekBase:  env("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		DeepSeekKey:   env("DEEPSEEK_API_KEY", ""),
		DeepSeekModel: env("DEEPSEEK_MODEL", "deepseek-chat"),

		DataDir:   env("DATA_DIR", "data/raw"),
		ExportDir: env("EXPORT_DIR", "data/enriched"),

		BatchSize:        atoi("SCORE_BATCH_SIZE", 20),
		BatchTimeout:     time.Duration(atoi("SCORE_BATCH_TIMEOUT_SECONDS", 120)) * time.Second,
		ScoreConcurrency: atoi("SCORE_CONCURRENCY", 2),
		TopK:             atoi("TOP_K", 10),
		RadiusMiles:      atoi("SEARCH_RADIUS_MILES", 30),
		EvidenceSeed:     int64(atoi("EVIDENCE_SEED", 0)),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.AmadeusID == "" || c.AmadeusSecret == "" {
		log.Warn().Msg("AMADEUS_CLIENT_ID / AMADEUS_CLIENT_SECRET are empty")
	}
	if c.DeepSeekKey == "" {
		log.Warn().Msg("DEEPSEEK_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// mysqlDSN appends parseTime=true when the DSN does not set it; the run
// store scans created_at into a time.Time, which needs that driver flag.
func mysqlDSN(dsn string) string {
	if dsn == "" || strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "parseTime=true"
}
