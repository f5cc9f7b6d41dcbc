package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"d10"`
	}

	API struct {
		BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8082"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
	}

	Cart struct {
		// Path of the cart mirror on disk. Empty picks a file under the
		// user config dir.
		Path string `envconfig:"CART_PATH"`
	}

	Stub struct {
		Port int `envconfig:"STUB_PORT" default:"8082"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Cart.Path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}

		cfg.Cart.Path = filepath.Join(dir, "d10admin", "cart.json")
	}

	return &cfg, nil
}
