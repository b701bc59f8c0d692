// config/loader.go
//
// Configuration loader.
//
// Context
// -------
// `Load(path)` builds one immutable Config from three layers (highest
// precedence last):
//
//  1. Optional `.env` beside the YAML file.
//  2. The YAML file itself.
//  3. Environment variables prefixed `DG_`, where `__` maps to "."
//     (e.g., `DG_DATABASE__DSN → database.dsn`).
//
// After merging, the tree is unmarshalled over Defaults() and validated.
// Failures are logged through the global sugared logger so early boot
// issues surface even before a file logger is installed.
package config

import (
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const envPrefix = "DG_"

// Load reads .env, the YAML file at path, and env overrides, then validates
// the merged result.
func Load(path string) (*Config, error) {
	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", path, "err", err)
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	zap.S().Infow("config loaded",
		"tables", cfg.Tables, "check_access", cfg.Access.CheckAccess,
		"cache_size", cfg.Cache.Size)
	return &cfg, nil
}
