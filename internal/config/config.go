package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	defaultPort           = "5000"
	defaultDatabase       = "watchShopDb"
	defaultCurrency       = "usd"
	defaultRequestTimeout = 10 * time.Second
	defaultSMTPPort       = 587
)

// Config holds everything the server reads from its environment. It is built once
// in main and handed to every component that needs it.
type Config struct {
	Port           string
	GinMode        string
	RequestTimeout time.Duration
	AllowedOrigins []string

	Log struct {
		Level  string
		Pretty bool
	}

	Mongo struct {
		URI      string
		Database string
	}

	// AccessTokenSecret signs and verifies identity tokens.
	AccessTokenSecret string

	Payment struct {
		SecretKey string
		Currency  string
	}

	// RequireAdminRole adds an administrator check to the elevated routes
	// (user listing, admin grant, user and product writes).
	RequireAdminRole bool

	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("no .env file found, using process environment")
	} else {
		slog.Info(".env file loaded")
	}

	cfg := &Config{
		Port:              getEnv("PORT", defaultPort),
		GinMode:           os.Getenv("GIN_MODE"),
		AccessTokenSecret: os.Getenv("ACCESS_TOKEN"),
		AllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Pretty = getBool("LOG_PRETTY")
	cfg.RequireAdminRole = getBool("REQUIRE_ADMIN_ROLE")

	timeout, err := getDuration("REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = timeout

	cfg.Mongo.URI = mongoURI()
	cfg.Mongo.Database = getEnv("DB_NAME", defaultDatabase)

	cfg.Payment.SecretKey = os.Getenv("PAYMENT_SECRET_KEY")
	cfg.Payment.Currency = strings.ToLower(getEnv("PAYMENT_CURRENCY", defaultCurrency))

	cfg.SMTP.Host = os.Getenv("SMTP_HOST")
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = os.Getenv("SMTP_FROM")
	cfg.SMTP.Port = defaultSMTPPort
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid SMTP_PORT %q", v)
		}
		cfg.SMTP.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	switch {
	case c.Mongo.URI == "":
		return errors.New("MONGODB_URI or DB_USER, DB_PASS and DB_HOST must be set")
	case c.AccessTokenSecret == "":
		return errors.New("ACCESS_TOKEN must be set")
	case c.Payment.SecretKey == "":
		return errors.New("PAYMENT_SECRET_KEY must be set")
	case c.RequestTimeout <= 0:
		return errors.New("REQUEST_TIMEOUT must be positive")
	case c.SMTP.Host != "" && c.SMTP.From == "":
		return errors.New("SMTP_FROM must be set when SMTP_HOST is set")
	}
	return nil
}

// mongoURI prefers MONGODB_URI and otherwise assembles an Atlas SRV URI from the
// credential parts.
func mongoURI() string {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}
	user, pass, host := os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_HOST")
	if user == "" || pass == "" || host == "" {
		return ""
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(user), url.QueryEscape(pass), host)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s %q", key, v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
