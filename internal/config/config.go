package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// AppConfig is read from the environment. A .env file, when present, is
// loaded by main before this runs.
type AppConfig struct {
	Env         string `env:"ENV" env-default:"dev"`
	ListenAddr  string `env:"LISTEN_ADDR" env-default:":8080"`
	ServiceCode string `env:"SERVICE_CODE" env-default:"*384*26621#"`

	// Session store. Empty REDIS_URL means in-process storage only.
	RedisURL   string        `env:"REDIS_URL"`
	SessionTTL time.Duration `env:"SESSION_TTL" env-default:"30m"`

	// Investment engine.
	EngineURL     string        `env:"ENGINE_URL" env-default:"http://localhost:9090"`
	EngineAPIKey  string        `env:"ENGINE_API_KEY"`
	PackageID     string        `env:"PACKAGE_ID"`
	TreasuryID    string        `env:"TREASURY_ID"`
	BridgeTimeout time.Duration `env:"BRIDGE_TIMEOUT" env-default:"30s"`

	// SMS sender.
	ATUsername string `env:"AT_USERNAME" env-default:"sandbox"`
	ATAPIKey   string `env:"AT_API_KEY"`
	ATSenderID string `env:"AT_SENDER_ID" env-default:"ARAIL"`
	ATBaseURL  string `env:"AT_BASE_URL" env-default:"https://api.africastalking.com"`

	// Admission. The default ranges belong to the USSD aggregator.
	AllowedCIDRs []string `env:"ALLOWED_CIDRS" env-default:"52.48.80.0/24,54.76.0.0/16,3.8.0.0/16,18.202.0.0/16"`

	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" env-default:"10"`

	// Offer terms.
	SuiPrice      float64 `env:"SUI_PRICE" env-default:"1.44"`
	MinInvestment int64   `env:"MIN_INVESTMENT" env-default:"100"`
	MaxInvestment int64   `env:"MAX_INVESTMENT" env-default:"1000000"`
	TotalRaise    int64   `env:"TOTAL_RAISE_SUI" env-default:"350000"`
	EquityOffered int64   `env:"EQUITY_OFFERED_PERCENT" env-default:"10"`

	// Seed values for /api/stats, carried over from earlier rounds.
	RaisedToDate  int64 `env:"RAISED_TO_DATE" env-default:"85400"`
	InvestorCount int64 `env:"INVESTOR_COUNT" env-default:"37"`
}

func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if cfg.MinInvestment <= 0 || cfg.MaxInvestment < cfg.MinInvestment {
		return nil, fmt.Errorf("invalid investment bounds: min=%d max=%d", cfg.MinInvestment, cfg.MaxInvestment)
	}
	if cfg.RateLimitMax <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	return &cfg, nil
}

// IsProd gates the origin allow-list; any other env skips it.
func (c *AppConfig) IsProd() bool {
	return c.Env == "prod"
}
