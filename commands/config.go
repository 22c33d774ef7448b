// Package commands implements the visitparse CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/visitparse/config"
	"github.com/c360studio/visitparse/visit"
)

// LoadConfig resolves the effective configuration: an explicit config file
// when given, the layered loader otherwise. Instrument profiles declared
// in the configuration are registered globally.
func LoadConfig(path string, logger *slog.Logger) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg = config.DefaultConfig()
		fileCfg, loadErr := config.LoadFromFile(path)
		if loadErr != nil {
			return nil, fmt.Errorf("load config %s: %w", path, loadErr)
		}
		cfg.Merge(fileCfg)
		if err = cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	} else {
		cfg, err = config.NewLoader(logger).Load()
		if err != nil {
			return nil, err
		}
	}

	registerInstruments(cfg)
	return cfg, nil
}

// registerInstruments installs configured instrument overview profiles.
func registerInstruments(cfg *config.Config) {
	for _, inst := range cfg.Instruments {
		visit.DefaultInstruments.Register(visit.Instrument{
			Name:           inst.Name,
			ScriptPrefixes: inst.ScriptPrefixes,
			Columns:        inst.Columns,
		})
	}
}
