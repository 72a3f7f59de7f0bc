package config

import (
	"net"
	"net/url"
	"os"

	"github.com/dmitrijs2005/gophdiary/internal/flagx"
)

const defaultPostgresPort = "5432"

// parseEnv overlays environment variables onto config.
//
//	DATABASE_DSN     full DSN, wins over the DB_* parts
//	DB_HOST          with DB_USER, DB_PASSWORD, DB_PORT (default 5432) and
//	                 DB_NAME builds a PostgreSQL DSN
//	ALLOWED_ORIGINS  comma separated CORS origins
//	LOG_LEVEL        debug|info|warn|error
func parseEnv(config *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DatabaseDSN = postgresDSN(
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			host,
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
		)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		config.DatabaseDSN = dsn
	}
	if origins, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		config.AllowedOrigins = flagx.SplitList(origins)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
}

func postgresDSN(user, password, host, port, name string) string {
	if port == "" {
		port = defaultPostgresPort
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: "sslmode=disable",
	}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	return u.String()
}
