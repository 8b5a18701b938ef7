package shared

import (
	"os"
	"strconv"
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

	POBase            string
	PrincessBase      string
	PrincessClientID  string
	RequestTimeout    time.Duration
	RequestsPerSecond int

	DataDir string // provider config documents + removal log

	// USD->GBP conversion for Princess on-board credit. Applied once, at
	// ingestion; the effective date is kept alongside the rate so historical
	// rows stay reproducible when the rate changes.
	USDToGBP    float64
	USDRateAsOf string

	CacheTTL time.Duration
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
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:            env("APP_ENV", "prod"),
		HTTPAddr:          env("HTTP_ADDR", ":8080"),
		MetricsAddr:       env("METRICS_ADDR", ":9100"),
		MySQLDSN:          env("MYSQL_DSN", "root:root@tcp(localhost:3306)/cruisewatch?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:         env("REDIS_ADDR", "localhost:6379"),
		RedisPass:         env("REDIS_PASSWORD", ""),
		RedisDB:           atoi("REDIS_DB", 0),
		POBase:            env("PO_BASE_URL", "https://www.pocruises.com/api/v2"),
		PrincessBase:      env("PRINCESS_BASE_URL", "https://gw.api.princess.com/pcl-web/internal"),
		PrincessClientID:  env("PRINCESS_CLIENT_ID", ""),
		RequestTimeout:    time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 50)) * time.Second,
		RequestsPerSecond: atoi("REQUESTS_PER_SECOND", 5),
		DataDir:           env("DATA_DIR", "./config"),
		USDToGBP:          atof("USD_TO_GBP", 0.78),
		USDRateAsOf:       env("USD_TO_GBP_AS_OF", "2025-10-01"),
		CacheTTL:          time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.PrincessClientID == "" {
		log.Warn().Msg("PRINCESS_CLIENT_ID is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
