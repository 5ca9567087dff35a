package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Board user created at startup when it does not exist yet
	AdminUsername string
	AdminPassword string
	AdminEmail    string

	CORSAllowedOrigins []string
	LoginRateLimit     string // ulule/limiter format, e.g. "5-M"
	PublicRateLimit    string

	ReconciliationSessionTTL time.Duration
	SepaPendingTTL           time.Duration

	SepaCreditorName string
	SepaCreditorIBAN string
	SepaCreditorBIC  string
	SepaCreditorID   string

	FeeDueDays int

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`
}

// GoogleEnabled reports whether Google sign-in is fully configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "ledenbeheer")
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("PUBLIC_RATE_LIMIT", "120-M")
	v.SetDefault("RECONCILIATION_SESSION_TTL", "2h")
	v.SetDefault("SEPA_PENDING_TTL", "1h")
	v.SetDefault("SEPA_CREDITOR_NAME", "")
	v.SetDefault("SEPA_CREDITOR_IBAN", "")
	v.SetDefault("SEPA_CREDITOR_BIC", "")
	v.SetDefault("SEPA_CREDITOR_ID", "")
	v.SetDefault("FEE_DUE_DAYS", 15)
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		AdminUsername:      v.GetString("ADMIN_USERNAME"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		LoginRateLimit:     v.GetString("LOGIN_RATE_LIMIT"),
		PublicRateLimit:    v.GetString("PUBLIC_RATE_LIMIT"),
		SepaCreditorName:   v.GetString("SEPA_CREDITOR_NAME"),
		SepaCreditorIBAN:   strings.ReplaceAll(v.GetString("SEPA_CREDITOR_IBAN"), " ", ""),
		SepaCreditorBIC:    v.GetString("SEPA_CREDITOR_BIC"),
		SepaCreditorID:     v.GetString("SEPA_CREDITOR_ID"),
		FeeDueDays:         v.GetInt("FEE_DUE_DAYS"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		FrontendBaseURL:    v.GetString("FRONTEND_BASE_URL"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Falling back to in-memory storage outside production.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "ledenbeheer"
	}
	if cfg.FeeDueDays <= 0 {
		log.Printf("Warning: invalid FEE_DUE_DAYS (%d). Defaulting to 15.\n", cfg.FeeDueDays)
		cfg.FeeDueDays = 15
	}

	cfg.JWTExpiryDuration = durationOrDefault(v, "JWT_EXPIRY_DURATION", time.Hour)
	cfg.ReconciliationSessionTTL = durationOrDefault(v, "RECONCILIATION_SESSION_TTL", 2*time.Hour)
	cfg.SepaPendingTTL = durationOrDefault(v, "SEPA_PENDING_TTL", time.Hour)

	if !cfg.GoogleEnabled() {
		log.Println("Warning: Google OAuth is not fully configured. Google sign-in is disabled.")
	}
	if cfg.SepaCreditorIBAN == "" || cfg.SepaCreditorID == "" {
		log.Println("Warning: SEPA creditor IBAN or creditor ID not set. Exports will omit the creditor block.")
	}

	return cfg
}

// durationOrDefault parses key as a duration (e.g. "60m", "2h"), falling back to def.
func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
