package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InstrumentConfig describes one listed instrument.
type InstrumentConfig struct {
	Symbol           string  `mapstructure:"symbol"`
	SecurityType     string  `mapstructure:"security_type"`
	PriceCurrency    string  `mapstructure:"price_currency"`
	BaseCurrency     string  `mapstructure:"base_currency"`
	SecurityExchange string  `mapstructure:"security_exchange"`
	Cusip            string  `mapstructure:"cusip"`
	Sedol            string  `mapstructure:"sedol"`
	Isin             string  `mapstructure:"isin"`
	Ric              string  `mapstructure:"ric"`
	ExchangeId       string  `mapstructure:"exchange_id"`
	BloombergId      string  `mapstructure:"bloomberg_id"`
	PartyId          string  `mapstructure:"party_id"`
	PartyRole        string  `mapstructure:"party_role"`
	PriceTick        float64 `mapstructure:"price_tick"`
	QuantityTick     float64 `mapstructure:"quantity_tick"`
	MinQuantity      float64 `mapstructure:"min_quantity"`
	MaxQuantity      float64 `mapstructure:"max_quantity"`
}

// Config represents the simulator configuration.
type Config struct {
	// Venue configuration
	Venue struct {
		Id string `mapstructure:"id"`
	} `mapstructure:"venue"`

	// Engine configuration
	Engine struct {
		TickInterval   time.Duration `mapstructure:"tick_interval"`
		QueueCapacity  int           `mapstructure:"queue_capacity"`
		EnqueueTimeout time.Duration `mapstructure:"enqueue_timeout"`
		Workers        int           `mapstructure:"workers"`
	} `mapstructure:"engine"`

	// Persistence configuration
	Persistence struct {
		Enabled  bool   `mapstructure:"enabled"`
		FilePath string `mapstructure:"file_path"`
	} `mapstructure:"persistence"`

	// Instrument universe
	Instruments []InstrumentConfig `mapstructure:"instruments"`

	// Monitoring configuration
	Monitoring struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"monitoring"`
}

// LoadConfig loads the configuration from the specified directory.
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/marketsim")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("MARKETSIM")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		logger.Info("config file not found, using defaults and environment variables")
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	logger.Info("configuration loaded",
		zap.String("venueID", config.Venue.Id),
		zap.Int("instruments", len(config.Instruments)),
		zap.Bool("persistenceEnabled", config.Persistence.Enabled),
	)

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("venue.id", "SIM")
	v.SetDefault("engine.tick_interval", "100ms")
	v.SetDefault("engine.queue_capacity", 1024)
	v.SetDefault("engine.enqueue_timeout", "5s")
	v.SetDefault("engine.workers", 0)
	v.SetDefault("persistence.enabled", false)
	v.SetDefault("persistence.file_path", "")
	v.SetDefault("monitoring.log_level", "info")
}
