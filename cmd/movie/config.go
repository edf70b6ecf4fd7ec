package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/argentumzz/movie/pkg/movies"
)

// loadConfig reads a run config, picking the decoder from the extension:
// .json, .yaml/.yml or .toml.
func loadConfig(path string) (movies.Config, error) {
	var cfg movies.Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config type %q (want .json, .yaml or .toml)", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// overrides holds flag values; only flags the user actually set are applied.
type overrides struct {
	movies, ratings, links string
	out, format, join      string
	top                    int
	lowMemory              bool
	set                    map[string]bool
}

func (o overrides) apply(cfg movies.Config) movies.Config {
	if o.set["movies"] {
		cfg.Inputs.Movies = o.movies
	}
	if o.set["ratings"] {
		cfg.Inputs.Ratings = o.ratings
	}
	if o.set["links"] {
		cfg.Inputs.Links = o.links
	}
	if o.set["out"] {
		cfg.Output.Path = o.out
	}
	if o.set["format"] {
		cfg.Output.Format = o.format
	}
	if o.set["join"] {
		cfg.JoinMode = o.join
	}
	if o.set["top"] {
		cfg.TopN = o.top
	}
	if o.set["low-memory"] {
		cfg.LowMemory = o.lowMemory
	}
	return cfg
}
