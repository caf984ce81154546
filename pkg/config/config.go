package config

import (
	"errors"
	"io/fs"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load reads optional dotenv files into the process environment and parses
// them into a struct tagged with `env:"..."`.
func Load[T any](files ...string) (T, error) {
	var cfg T
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Printf("notice: %s not found, using system environment variables", f)
				continue
			}
			return cfg, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
