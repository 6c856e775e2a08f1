package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	JWTSecret string

	// BlobBackend selects where document bytes live: "disk" or "minio".
	BlobBackend    string
	BlobDataDir    string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	MaxDocumentBytes   int64
	SubmitTimeout      time.Duration
	NotificationStream string
	IdempTTLSecs       int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "agriloan"),
		MySQLUser: getenv("MYSQL_USER", "agriloan"),
		MySQLPass: getenv("MYSQL_PASS", "agriloan"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getint("REDIS_DB", 0),

		JWTSecret: os.Getenv("JWT_SECRET"),

		BlobBackend:    getenv("BLOB_BACKEND", "disk"),
		BlobDataDir:    getenv("BLOB_DATA_DIR", "/var/lib/agriloan/documents"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		MinioBucket:    getenv("MINIO_BUCKET", "loan-documents"),

		MaxDocumentBytes:   int64(getint("MAX_DOCUMENT_BYTES", 5<<20)),
		SubmitTimeout:      time.Duration(getint("SUBMIT_TIMEOUT_SECONDS", 30)) * time.Second,
		NotificationStream: getenv("NOTIFICATION_STREAM", "loan-notifications"),
		IdempTTLSecs:       getint("IDEMPOTENCY_TTL_SECONDS", 300),
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	switch c.BlobBackend {
	case "disk":
		if c.BlobDataDir == "" {
			return errors.New("missing BLOB_DATA_DIR")
		}
	case "minio":
		if c.MinioEndpoint == "" {
			return errors.New("missing MINIO_ENDPOINT")
		}
	default:
		return fmt.Errorf("unknown BLOB_BACKEND %q (want disk or minio)", c.BlobBackend)
	}
	if c.MaxDocumentBytes <= 0 {
		return errors.New("MAX_DOCUMENT_BYTES must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
