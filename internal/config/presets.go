package config

import "sort"

var Presets = map[string]*Config{
	"dam_break": {
		Kernel: "cubic_spline", Dim: 2, H: 1.0, Dt: 0.002, Steps: 1000,
		Stiffness: 50, RestDensity: 1.0, Viscosity: 0.1, Gravity: 9.81,
		Blocks: []BlockConfig{
			{Origin: []float64{1, 1}, Count: 600, Columns: 20, Spacing: 0.5, Mass: 0.25, Jitter: 0.02},
		},
	},
	"droplet": {
		Kernel: "cubic_spline", Dim: 3, H: 1.0, Dt: 0.002, Steps: 300,
		Stiffness: 50, RestDensity: 1.0, Viscosity: 0.2, Gravity: 0,
		Blocks: []BlockConfig{
			{Count: 512, Spacing: 0.5, Mass: 0.125, Jitter: 0.05},
		},
	},
	"column": {
		Kernel: "cubic_spline", Dim: 1, H: 1.0, Dt: 0.001, Steps: 500,
		Stiffness: 20, RestDensity: 1.0, Viscosity: 0.05, Gravity: 9.81,
		Blocks: []BlockConfig{
			{Count: 64, Spacing: 0.5, Mass: 0.5},
		},
	},
	"splash": {
		Kernel: "spiky", Dim: 2, H: 1.0, Dt: 0.001, Steps: 800,
		Stiffness: 80, RestDensity: 1.0, Viscosity: 0.05, Gravity: 9.81,
		Blocks: []BlockConfig{
			{Origin: []float64{0, 0}, Count: 400, Columns: 40, Spacing: 0.5, Mass: 0.25},
			{Origin: []float64{8, 6}, Count: 64, Spacing: 0.5, Mass: 0.25, Jitter: 0.05},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
