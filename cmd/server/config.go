package main

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// config comes from the environment. An empty address disables that
// service.
type config struct {
	ChatAddr    string     `env:"CHAT_ADDR" envDefault:":5000"`
	EchoAddr    string     `env:"ECHO_ADDR" envDefault:":5001"`
	PrimeAddr   string     `env:"PRIME_ADDR" envDefault:":5002"`
	MeansAddr   string     `env:"MEANS_ADDR" envDefault:":5003"`
	MetricsAddr string     `env:"METRICS_ADDR" envDefault:":9090"`
	BusDepth    int        `env:"BUS_DEPTH" envDefault:"256"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BusDepth <= 0 {
		cfg.BusDepth = 256
	}
	return cfg, nil
}
