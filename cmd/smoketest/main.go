package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"api-smoke/cmd"
	"api-smoke/internal/smoke"
)

type Config struct {
	BaseURL        string        `env:"BASE_URL" envDefault:"http://localhost:8000"`
	HealthTimeout  time.Duration `env:"HEALTH_TIMEOUT" envDefault:"10s"`
	PredictTimeout time.Duration `env:"PREDICT_TIMEOUT" envDefault:"30s"`
}

// Usage: smoketest [baseUrl] [imagePath]
func main() {
	cmd.LoadEnvFile()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	code := smoke.Run(context.Background(), smoke.Config{
		BaseURL:        cfg.BaseURL,
		HealthTimeout:  cfg.HealthTimeout,
		PredictTimeout: cfg.PredictTimeout,
	}, flag.Args(), os.Stdout)

	os.Exit(code)
}
