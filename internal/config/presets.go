package config

// Presets are ready-to-run configurations keyed by scenario then name.
var Presets = map[string]map[string]*Config{
	"pendulum": {
		"small": {
			Scenario: "pendulum", Scheme: "rk4", Dt: 0.001, Duration: 20,
			InitState: InitState{Theta: 0.2},
		},
		"large": {
			Scenario: "pendulum", Scheme: "rk4", Dt: 0.001, Duration: 20,
			InitState: InitState{Theta: 2.5},
		},
		"spinning": {
			Scenario: "pendulum", Scheme: "rk4", Dt: 0.001, Duration: 30,
			InitState: InitState{Theta: 0.1, Omega: 8},
		},
	},
	"double_pendulum": {
		"gentle": {
			Scenario: "double_pendulum", Scheme: "rk4", Dt: 0.001, Duration: 30,
			InitState: InitState{Theta: 0.3, Theta2: 0.3},
		},
		"chaos": {
			Scenario: "double_pendulum", Scheme: "rk4", Dt: 0.0005, Duration: 60,
			InitState: InitState{Theta: 3.0, Theta2: 3.0},
		},
	},
	"slider": {
		"bounce": {
			Scenario: "slider", Scheme: "rk4", Dt: 0.001, Duration: 20,
			InitState: InitState{Pos: 0.2},
		},
	},
	"brick": {
		"drop": {
			Scenario: "brick", Scheme: "rk4", Dt: 0.001, Duration: 3,
			InitState: InitState{Height: 2},
		},
		"tumble": {
			Scenario: "brick", Scheme: "rk4", Dt: 0.0005, Duration: 5,
			InitState: InitState{Height: 5, Omega: 4},
		},
	},
	"car": {
		"flat": {
			Scenario: "car", Scheme: "rk4", Dt: 0.0005, Duration: 20,
			Terrain: "flat", InitState: InitState{Speed: 0},
		},
		"rough": {
			Scenario: "car", Scheme: "rk4", Dt: 0.0002, Duration: 20,
			Terrain: "mixed", InitState: InitState{Speed: 10},
		},
	},
}

// Preset resolves a scenario/name pair, filling unset fields from the
// defaults. Unknown pairs return nil.
func Preset(scenario, name string) *Config {
	byName, ok := Presets[scenario]
	if !ok {
		return nil
	}
	p, ok := byName[name]
	if !ok {
		return nil
	}
	cfg := *p
	if cfg.Gravity == 0 {
		cfg.Gravity = DefaultGravity
	}
	if cfg.Terrain == "" {
		cfg.Terrain = "flat"
	}
	cfg.Normalize()
	return &cfg
}

// ListPresets returns the preset names for a scenario.
func ListPresets(scenario string) []string {
	byName, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	return names
}
