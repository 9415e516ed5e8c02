package config

import (
	"flag"
	"os"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	RunAddress   string
	DatabaseURI  string
	StateFile    string
	Key          string
	PaymentDelay time.Duration
	Logger       *zap.SugaredLogger
}

func NewConfig() *Config {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stdout", "server.log"}

	logger := zap.Must(logCfg.Build())

	cfg := &Config{}
	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "HTTP server address")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "DB connection string")
	flag.StringVar(&cfg.StateFile, "f", "panel_state.json", "application state file")
	flag.StringVar(&cfg.Key, "k", "trendpanel-secret", "token signing key")
	flag.DurationVar(&cfg.PaymentDelay, "p", 2*time.Second, "simulated payment processing delay")
	flag.Parse()

	cfg.Logger = logger.Sugar()

	ReadServerEnvironment(cfg)

	return cfg
}

func ReadServerEnvironment(cfg *Config) {
	if runAddress := os.Getenv("RUN_ADDRESS"); runAddress != "" {
		cfg.RunAddress = runAddress
	}

	if databaseURI := os.Getenv("DATABASE_URI"); databaseURI != "" {
		cfg.DatabaseURI = databaseURI
	}

	if stateFile := os.Getenv("STATE_FILE"); stateFile != "" {
		cfg.StateFile = stateFile
	}

	if key := os.Getenv("PANEL_KEY"); key != "" {
		cfg.Key = key
	}

	if delay := os.Getenv("PAYMENT_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			cfg.PaymentDelay = d
		}
	}
}
