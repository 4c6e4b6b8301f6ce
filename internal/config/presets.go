package config

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"small": {
			Family: "pendulum", Variant: "full", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			InitState: InitStateConfig{Theta: 0.2, Omega: 0.0},
		},
		"large": {
			Family: "pendulum", Variant: "full", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			InitState: InitStateConfig{Theta: 2.5, Omega: 0.0},
		},
		"spinning": {
			Family: "pendulum", Variant: "full", Integrator: "rk45", Dt: 0.01, Duration: 30.0,
			InitState: InitStateConfig{Theta: 0.1, Omega: 8.0},
		},
	},
	"duffing": {
		"chaotic": {
			Family: "duffing", Variant: "full", Integrator: "rk4", Dt: 0.005, Duration: 100.0,
			InitState: InitStateConfig{Pos: 1.0, Vel: 0.0},
		},
		"gentle": {
			Family: "duffing", Variant: "full", Integrator: "rk4", Dt: 0.01, Duration: 40.0,
			InitState: InitStateConfig{Pos: 0.1, Vel: 0.0},
		},
	},
	"masschain": {
		"pluck": {
			Family: "masschain", Variant: "full", Integrator: "rk4", Dt: 0.005, Duration: 20.0,
			InitState: InitStateConfig{Pluck: 1.0},
		},
		"wave": {
			Family: "masschain", Variant: "reduced", Integrator: "rk4", Dt: 0.005, Duration: 20.0,
		},
	},
}

func GetPreset(family, preset string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := familyPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	return names
}
