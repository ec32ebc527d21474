// Package config loads the JSON machine configuration describing a
// printer's steppers, their kinematics topology, and the scheduler
// tunables that drive step generation — the Go equivalent of the teacher's
// standalone/config package, retargeted from GPIO pin assignments to the
// TMQ/ISS/SC stepper parameters this core actually needs.
package config

import "encoding/json"

// StepperConfig describes one stepper's kinematics binding and the
// solver/compressor tunables specific to it.
type StepperConfig struct {
	OID        uint32             `json:"oid"`
	Kinematics string             `json:"kinematics"` // e.g. "cartesian_x", "corexy_plus", "delta"
	Params     map[string]float64 `json:"params"`      // topology-specific constants (arm2, tower_x, ...)

	StepDist           float64 `json:"step_dist"`
	GenStepsPreActive  float64 `json:"gen_steps_pre_active"`
	GenStepsPostActive float64 `json:"gen_steps_post_active"`
	MaxError           uint32  `json:"max_error"`
	InvertDir          bool    `json:"invert_dir"`
}

// SchedulerConfig holds the tunables for the planner's tick loop.
type SchedulerConfig struct {
	MCUFreq       float64 `json:"mcu_freq"`
	MCUTimeOffset float64 `json:"mcu_time_offset"`
	FlushWindow   float64 `json:"flush_window"`
	ClearHistory  float64 `json:"clear_history"`
}

// MachineConfig is the complete machine configuration: one stepper entry
// per named motor, plus scheduler tunables and default motion parameters.
type MachineConfig struct {
	Steppers  map[string]StepperConfig `json:"steppers"`
	Scheduler SchedulerConfig          `json:"scheduler"`

	DefaultVelocity float64 `json:"default_velocity"`
	DefaultAccel    float64 `json:"default_accel"`

	Plugins []string `json:"plugins"`
}

// LoadConfig parses a JSON configuration document and applies defaults to
// any field the document left zero-valued.
func LoadConfig(jsonData []byte) (*MachineConfig, error) {
	var cfg MachineConfig
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *MachineConfig) {
	if cfg.DefaultVelocity == 0 {
		cfg.DefaultVelocity = 50.0
	}
	if cfg.DefaultAccel == 0 {
		cfg.DefaultAccel = 500.0
	}
	if cfg.Scheduler.MCUFreq == 0 {
		cfg.Scheduler.MCUFreq = 16_000_000.0
	}
	if cfg.Scheduler.FlushWindow == 0 {
		cfg.Scheduler.FlushWindow = 0.5
	}
	if cfg.Scheduler.ClearHistory == 0 {
		cfg.Scheduler.ClearHistory = 30.0
	}

	for name, sc := range cfg.Steppers {
		if sc.MaxError == 0 {
			sc.MaxError = 25 // 16MHz ticks, matches Klipper's default max_error
		}
		if sc.StepDist == 0 {
			sc.StepDist = 1.0 / 80.0 // 80 steps/mm, a common default
		}
		cfg.Steppers[name] = sc
	}
}

// DefaultCartesianConfig returns a minimal three-axis Cartesian machine
// configuration, the Go port's equivalent of the teacher's
// DefaultCartesianConfig helper.
func DefaultCartesianConfig() *MachineConfig {
	return &MachineConfig{
		Steppers: map[string]StepperConfig{
			"x": {OID: 0, Kinematics: "cartesian_x", StepDist: 1.0 / 80.0, MaxError: 25},
			"y": {OID: 1, Kinematics: "cartesian_y", StepDist: 1.0 / 80.0, MaxError: 25},
			"z": {OID: 2, Kinematics: "cartesian_z", StepDist: 1.0 / 400.0, MaxError: 25},
			"e": {OID: 3, Kinematics: "extruder", StepDist: 1.0 / 96.0, MaxError: 25},
		},
		Scheduler: SchedulerConfig{
			MCUFreq:      16_000_000.0,
			FlushWindow:  0.5,
			ClearHistory: 30.0,
		},
		DefaultVelocity: 50.0,
		DefaultAccel:    500.0,
	}
}
