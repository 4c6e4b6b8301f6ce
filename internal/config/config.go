package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tinytorch/internal/dynamo"
	"github.com/san-kum/tinytorch/internal/systems"
)

const (
	DefaultDt        = 0.01
	DefaultDuration  = 10.0
	DefaultTheta     = 0.5
	DefaultEpochs    = 500
	DefaultLR        = 0.01
	DefaultTrainFrac = 0.8
)

type Config struct {
	Family     string          `yaml:"family"`
	Variant    string          `yaml:"variant"`
	Integrator string          `yaml:"integrator"`
	Dt         float64         `yaml:"dt"`
	Duration   float64         `yaml:"duration"`
	Seed       int64           `yaml:"seed"`
	DataDir    string          `yaml:"data_dir"`
	InitState  InitStateConfig `yaml:"init_state"`
	Fit        FitConfig       `yaml:"fit"`
}

type InitStateConfig struct {
	Theta float64 `yaml:"theta"`
	Omega float64 `yaml:"omega"`
	Pos   float64 `yaml:"pos"`
	Vel   float64 `yaml:"vel"`
	// Pluck displaces the first mass of a chain; zero keeps the
	// family's default excitation.
	Pluck float64 `yaml:"pluck"`
}

type FitConfig struct {
	Epochs       int     `yaml:"epochs"`
	Hidden       []int   `yaml:"hidden"`
	LearningRate float64 `yaml:"learning_rate"`
	TrainFrac    float64 `yaml:"train_frac"`
	Activation   string  `yaml:"activation"`
}

func DefaultConfig() *Config {
	return &Config{
		Family:     "pendulum",
		Variant:    "full",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		DataDir:    "foundation",
		InitState: InitStateConfig{
			Theta: DefaultTheta,
			Pos:   1.0,
		},
		Fit: FitConfig{
			Epochs:       DefaultEpochs,
			Hidden:       []int{32, 32},
			LearningRate: DefaultLR,
			TrainFrac:    DefaultTrainFrac,
			Activation:   "tanh",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetInitState builds the initial state for the config's family on the
// given system instance. A nil return means the system's default state
// should be used.
func (c *Config) GetInitState(sys dynamo.System) dynamo.State {
	switch c.Family {
	case "duffing":
		return dynamo.State{c.InitState.Pos, c.InitState.Vel}
	case "masschain":
		// chains size their state from their own parameters, so the
		// pluck amplitude is handed to the system itself
		if p, ok := sys.(systems.Pluckable); ok && c.InitState.Pluck != 0 {
			return p.PluckedState(c.InitState.Pluck)
		}
		return nil
	default:
		return dynamo.State{c.InitState.Theta, c.InitState.Omega}
	}
}
