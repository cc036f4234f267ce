package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	AuthModeToken   = "token"
	AuthModeSession = "session"

	devJWTSecret     = "krishilink-dev-jwt-secret"
	devRefreshSecret = "krishilink-dev-refresh-secret"
	devSessionSecret = "krishilink-dev-session-secret"
)

type Env struct {
	AppAddr string `envconfig:"APP_ADDR" default:":8080"`
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	GinMode string `envconfig:"GIN_MODE"`

	DBDSN string `envconfig:"DB_DSN" default:"root:@tcp(127.0.0.1:3306)/krishilink?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"`

	AuthMode         string        `envconfig:"AUTH_MODE" default:"token"`
	JWTSecret        string        `envconfig:"JWT_SECRET"`
	JWTRefreshSecret string        `envconfig:"JWT_REFRESH_SECRET"`
	JWTAccessTTL     time.Duration `envconfig:"JWT_ACCESS_TTL" default:"24h"`
	JWTRefreshTTL    time.Duration `envconfig:"JWT_REFRESH_TTL" default:"168h"`
	SessionSecret    string        `envconfig:"SESSION_SECRET"`
	SessionMaxAge    time.Duration `envconfig:"SESSION_MAX_AGE" default:"24h"`
	SessionDir       string        `envconfig:"SESSION_DIR" default:"sessions"`
	BcryptCost       int           `envconfig:"BCRYPT_COST" default:"12"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	UploadDir          string   `envconfig:"UPLOAD_DIR" default:"uploads"`

	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"krishilink.events"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"krishilink-api"`
}

// LoadEnv reads an optional .env file, then the process environment, and
// validates the result.
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file loaded")
	}
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("config: %w", err)
	}
	if err := env.Validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

func (e Env) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(e.AppEnv), "production")
}

// Validate fails fast on a configuration that must not be served. Outside
// production, missing secrets are replaced by development values.
func (e *Env) Validate() error {
	e.AuthMode = strings.ToLower(strings.TrimSpace(e.AuthMode))
	if e.AuthMode != AuthModeToken && e.AuthMode != AuthModeSession {
		return fmt.Errorf("config: AUTH_MODE must be %q or %q, got %q", AuthModeToken, AuthModeSession, e.AuthMode)
	}
	if e.BcryptCost < 4 || e.BcryptCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST out of range: %d", e.BcryptCost)
	}
	if strings.TrimSpace(e.DBDSN) == "" {
		return fmt.Errorf("config: DB_DSN is required")
	}

	secrets := []struct {
		name     string
		value    *string
		fallback string
		needed   bool
	}{
		{"JWT_SECRET", &e.JWTSecret, devJWTSecret, e.AuthMode == AuthModeToken},
		{"JWT_REFRESH_SECRET", &e.JWTRefreshSecret, devRefreshSecret, e.AuthMode == AuthModeToken},
		{"SESSION_SECRET", &e.SessionSecret, devSessionSecret, e.AuthMode == AuthModeSession},
	}
	for _, s := range secrets {
		v := strings.TrimSpace(*s.value)
		if e.IsProduction() {
			if s.needed && (v == "" || v == s.fallback) {
				return fmt.Errorf("config: %s must be set in production", s.name)
			}
			continue
		}
		if v == "" {
			if s.needed {
				log.Printf("config: %s not set, using development fallback", s.name)
			}
			*s.value = s.fallback
		}
	}

	if e.AuthMode == AuthModeToken && e.JWTSecret == e.JWTRefreshSecret && e.IsProduction() {
		return fmt.Errorf("config: JWT_REFRESH_SECRET must differ from JWT_SECRET")
	}
	return nil
}
