package game

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete match configuration
type Config struct {
	Match  MatchSettings `hcl:"match,block"`
	Timers TimerSettings `hcl:"timers,block"`
	Relay  RelaySettings `hcl:"relay,block"`
}

// MatchSettings controls stakes and blind stepping. Amounts are in whole
// chips and may be fractional (0.5/1 blinds).
type MatchSettings struct {
	StartingStack   float64 `hcl:"starting_stack,optional"`
	SmallBlind      float64 `hcl:"small_blind,optional"`
	BigBlind        float64 `hcl:"big_blind,optional"`
	BlindStepHands  int     `hcl:"blind_step_hands,optional"`
	BlindStepFactor float64 `hcl:"blind_step_factor,optional"`
}

// TimerSettings controls the host's delays
type TimerSettings struct {
	NextHandMs      int `hcl:"next_hand_ms,optional"`
	OpponentThinkMs int `hcl:"opponent_think_ms,optional"`
}

// RelaySettings locates the broadcast relay
type RelaySettings struct {
	Addr string `hcl:"addr,optional"`
}

// DefaultConfig returns the built-in defaults: 100-chip stacks at 0.5/1
// with stacks scaled by 0.8 every 10 hands.
func DefaultConfig() *Config {
	return &Config{
		Match: MatchSettings{
			StartingStack:   100,
			SmallBlind:      0.5,
			BigBlind:        1,
			BlindStepHands:  10,
			BlindStepFactor: 0.8,
		},
		Timers: TimerSettings{
			NextHandMs:      3000,
			OpponentThinkMs: 1200,
		},
		Relay: RelaySettings{
			Addr: "localhost:8090",
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to the
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Match.StartingStack <= 0 {
		config.Match.StartingStack = defaults.Match.StartingStack
	}
	if config.Match.SmallBlind <= 0 {
		config.Match.SmallBlind = defaults.Match.SmallBlind
	}
	if config.Match.BigBlind <= 0 {
		config.Match.BigBlind = defaults.Match.BigBlind
	}
	if config.Match.BlindStepHands == 0 {
		config.Match.BlindStepHands = defaults.Match.BlindStepHands
	}
	if config.Match.BlindStepFactor <= 0 {
		config.Match.BlindStepFactor = defaults.Match.BlindStepFactor
	}
	if config.Timers.NextHandMs <= 0 {
		config.Timers.NextHandMs = defaults.Timers.NextHandMs
	}
	if config.Timers.OpponentThinkMs <= 0 {
		config.Timers.OpponentThinkMs = defaults.Timers.OpponentThinkMs
	}
	if config.Relay.Addr == "" {
		config.Relay.Addr = defaults.Relay.Addr
	}
	return &config, nil
}
