package config

// Presets are named parameter sets for common scenarios. A preset is a
// complete Config; flags and config files override on top of it.
var presets = map[string]func() *Config{
	"small": func() *Config {
		cfg := DefaultConfig()
		cfg.N = 64
		cfg.Cutoffs = []float64{2.0}
		cfg.Steps = 200
		cfg.BlockSize = 50
		return cfg
	},
	"equilibrium": func() *Config {
		cfg := DefaultConfig()
		cfg.StrainRate = 0
		return cfg
	},
	"shear": func() *Config {
		cfg := DefaultConfig()
		cfg.StrainRate = 0.08
		cfg.Steps = 5000
		cfg.BlockSize = 500
		return cfg
	},
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *Config {
	f, ok := presets[name]
	if !ok {
		return nil
	}
	return f()
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
