package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophdiary/internal/flagx"
	"github.com/dmitrijs2005/gophdiary/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations accept
// both strings such as "3s" and integer nanoseconds (timex.Duration).
// Pointer and zero-valued fields are left untouched when absent.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDriver   string         `json:"database_driver"`
	DatabaseDSN      string         `json:"database_dsn"`
	MaxOpenConns     int            `json:"max_open_conns"`
	AcquireTimeout   timex.Duration `json:"acquire_timeout"`
	AllowedOrigins   []string       `json:"allowed_origins"`
	PageSize         int            `json:"page_size"`
	WriteRateLimit   float64        `json:"write_rate_limit"`
	WriteRateBurst   int            `json:"write_rate_burst"`
	MaxBodyBytes     int64          `json:"max_body_bytes"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
	MigrateOnStart   *bool          `json:"migrate_on_start"`
	LogLevel         string         `json:"log_level"`
	LogFormat        string         `json:"log_format"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Without the flag nothing is loaded. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if c.MaxOpenConns > 0 {
		config.MaxOpenConns = c.MaxOpenConns
	}
	if c.AcquireTimeout.Duration > 0 {
		config.AcquireTimeout = c.AcquireTimeout.Duration
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.PageSize > 0 {
		config.PageSize = c.PageSize
	}
	if c.WriteRateLimit > 0 {
		config.WriteRateLimit = c.WriteRateLimit
	}
	if c.WriteRateBurst > 0 {
		config.WriteRateBurst = c.WriteRateBurst
	}
	if c.MaxBodyBytes > 0 {
		config.MaxBodyBytes = c.MaxBodyBytes
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.MigrateOnStart != nil {
		config.MigrateOnStart = *c.MigrateOnStart
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
