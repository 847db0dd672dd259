package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const EnvPrefix = "TASTYBITES"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App        AppConfig
	Pricing    PricingConfig
	Simulation SimulationConfig
	Storage    StorageConfig
	Password   PasswordConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TASTYBITES_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"TASTYBITES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TASTYBITES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// PricingConfig holds the checkout pricing knobs. Rates and fees are
// decimal strings so no float rounding leaks into totals.
type PricingConfig struct {
	TaxRate            string `envconfig:"TASTYBITES_TAX_RATE" default:"0.08"`
	StandardFee        string `envconfig:"TASTYBITES_DELIVERY_FEE_STANDARD" default:"3.99"`
	ExpressFee         string `envconfig:"TASTYBITES_DELIVERY_FEE_EXPRESS" default:"6.99"`
	StandardETAMinutes string `envconfig:"TASTYBITES_DELIVERY_ETA_STANDARD" default:"30-45 minutes"`
	ExpressETAMinutes  string `envconfig:"TASTYBITES_DELIVERY_ETA_EXPRESS" default:"15-25 minutes"`
}

// TaxRateDecimal parses the configured tax rate. Validate guarantees it
// parses, so the zero value is only possible on an unvalidated config.
func (p PricingConfig) TaxRateDecimal() decimal.Decimal {
	rate, err := decimal.NewFromString(p.TaxRate)
	if err != nil {
		return decimal.Zero
	}
	return rate
}

func (p PricingConfig) StandardFeeDecimal() decimal.Decimal {
	fee, err := decimal.NewFromString(p.StandardFee)
	if err != nil {
		return decimal.Zero
	}
	return fee
}

func (p PricingConfig) ExpressFeeDecimal() decimal.Decimal {
	fee, err := decimal.NewFromString(p.ExpressFee)
	if err != nil {
		return decimal.Zero
	}
	return fee
}

// SimulationConfig tunes the artificial latencies that stand in for a
// real backend. Tests set them to zero.
type SimulationConfig struct {
	AuthLatency       time.Duration `envconfig:"TASTYBITES_SIM_AUTH_LATENCY" default:"1s"`
	SettlementLatency time.Duration `envconfig:"TASTYBITES_SIM_SETTLEMENT_LATENCY" default:"2s"`
	CartClearDelay    time.Duration `envconfig:"TASTYBITES_SIM_CART_CLEAR_DELAY" default:"1s"`
}

type StorageConfig struct {
	SessionDBPath string `envconfig:"TASTYBITES_SESSION_DB_PATH" default:"tastybites.db"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TASTYBITES_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TASTYBITES_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TASTYBITES_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TASTYBITES_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TASTYBITES_ARGON_KEY_LEN" default:"32"`
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs error
	errs = multierr.Append(errs, validateRate("tax rate", c.Pricing.TaxRate))
	errs = multierr.Append(errs, validateRate("standard delivery fee", c.Pricing.StandardFee))
	errs = multierr.Append(errs, validateRate("express delivery fee", c.Pricing.ExpressFee))
	if c.Simulation.AuthLatency < 0 {
		errs = multierr.Append(errs, fmt.Errorf("auth latency must not be negative"))
	}
	if c.Simulation.SettlementLatency < 0 {
		errs = multierr.Append(errs, fmt.Errorf("settlement latency must not be negative"))
	}
	if c.Simulation.CartClearDelay < 0 {
		errs = multierr.Append(errs, fmt.Errorf("cart clear delay must not be negative"))
	}
	if strings.TrimSpace(c.Storage.SessionDBPath) == "" {
		errs = multierr.Append(errs, fmt.Errorf("session db path is required"))
	}
	return errs
}

func validateRate(name, value string) error {
	rate, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("%s %q is not a decimal", name, value)
	}
	if rate.IsNegative() {
		return fmt.Errorf("%s must not be negative", name)
	}
	return nil
}
