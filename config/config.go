package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config carries the optional settings a deployment may override. Every
// field has a working default; a missing file is not an error to the
// caller who uses Default.
type Config struct {
	Rows    int    `yaml:"rows"`
	Columns int    `yaml:"columns"`
	Listen  string `yaml:"listen"`  // websocket server address
	Publish string `yaml:"publish"` // zeromq publish endpoint, empty disables
}

func Default() Config {
	return Config{
		Rows:    20,
		Columns: 10,
		Listen:  ":8080",
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.Rows <= 0 || cfg.Columns <= 0 {
		return cfg, errors.Errorf("config %s: sheet dimensions must be positive", path)
	}
	return cfg, nil
}
