// Package config holds the yaml run configuration shared by the CLI
// commands.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.001
	DefaultDuration = 10.0
	DefaultGravity  = 9.81
	DefaultTheta    = 0.5
)

type Config struct {
	Scenario  string    `yaml:"scenario"`
	Scheme    string    `yaml:"scheme"`
	Dt        float64   `yaml:"dt"`
	Duration  float64   `yaml:"duration"`
	Gravity   float64   `yaml:"gravity"`
	Terrain   string    `yaml:"terrain"`
	InitState InitState `yaml:"init_state"`
	Car       Car       `yaml:"car"`
}

type InitState struct {
	Theta  float64 `yaml:"theta"`
	Omega  float64 `yaml:"omega"`
	Theta2 float64 `yaml:"theta2"`
	Omega2 float64 `yaml:"omega2"`
	Pos    float64 `yaml:"pos"`
	Vel    float64 `yaml:"vel"`
	Height float64 `yaml:"height"`
	Speed  float64 `yaml:"speed"`
}

// Car mirrors the vehicle parameters; zero fields are filled in from
// DefaultCar by Normalize so partial yaml overrides keep a drivable
// vehicle.
type Car struct {
	ChassisMass    float64    `yaml:"chassis_mass"`
	ChassisDims    [3]float64 `yaml:"chassis_dims"`
	SuspensionMass float64    `yaml:"suspension_mass"`
	WheelMass      float64    `yaml:"wheel_mass"`
	WheelRadius    float64    `yaml:"wheel_radius"`
	WheelWidth     float64    `yaml:"wheel_width"`
	Friction       float64    `yaml:"friction"`
	MaxCurvature   float64    `yaml:"max_curvature"`
	FrontBrake     float64    `yaml:"front_brake"`
	RearBrake      float64    `yaml:"rear_brake"`
	DriveSpeeds    []float64  `yaml:"drive_speeds"`
	DriveTorques   []float64  `yaml:"drive_torques"`
}

func DefaultCar() Car {
	return Car{
		ChassisMass:    1000,
		ChassisDims:    [3]float64{3.0, 1.2, 0.4},
		SuspensionMass: 20,
		WheelMass:      20,
		WheelRadius:    0.325,
		WheelWidth:     0.2,
		Friction:       0.8,
		MaxCurvature:   1.0 / 5.0,
		FrontBrake:     800,
		RearBrake:      400,
		DriveSpeeds:    []float64{0, 25, 50, 75},
		DriveTorques:   []float64{1000, 1000, 600, 250},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: "pendulum",
		Scheme:   "rk4",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Gravity:  DefaultGravity,
		Terrain:  "flat",
		InitState: InitState{
			Theta:  DefaultTheta,
			Theta2: DefaultTheta,
			Height: 1.0,
		},
		Car: DefaultCar(),
	}
}

// Normalize fills zero car fields from the defaults.
func (c *Config) Normalize() {
	d := DefaultCar()
	car := &c.Car
	if car.ChassisMass == 0 {
		car.ChassisMass = d.ChassisMass
	}
	if car.ChassisDims == ([3]float64{}) {
		car.ChassisDims = d.ChassisDims
	}
	if car.SuspensionMass == 0 {
		car.SuspensionMass = d.SuspensionMass
	}
	if car.WheelMass == 0 {
		car.WheelMass = d.WheelMass
	}
	if car.WheelRadius == 0 {
		car.WheelRadius = d.WheelRadius
	}
	if car.WheelWidth == 0 {
		car.WheelWidth = d.WheelWidth
	}
	if car.Friction == 0 {
		car.Friction = d.Friction
	}
	if car.MaxCurvature == 0 {
		car.MaxCurvature = d.MaxCurvature
	}
	if car.FrontBrake == 0 {
		car.FrontBrake = d.FrontBrake
	}
	if car.RearBrake == 0 {
		car.RearBrake = d.RearBrake
	}
	if len(car.DriveSpeeds) == 0 {
		car.DriveSpeeds = d.DriveSpeeds
	}
	if len(car.DriveTorques) == 0 {
		car.DriveTorques = d.DriveTorques
	}
}

// Validate rejects configurations no run can start from.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return errors.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return errors.Errorf("duration must be positive, got %g", c.Duration)
	}
	if len(c.Car.DriveSpeeds) != len(c.Car.DriveTorques) {
		return errors.Errorf("drive table needs matching speeds and torques, got %d and %d",
			len(c.Car.DriveSpeeds), len(c.Car.DriveTorques))
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	cfg.Normalize()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return os.WriteFile(path, data, 0o644)
}
