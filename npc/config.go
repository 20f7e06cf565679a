package npc

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
)

var ErrInvalidConfig = errors.New("npc: invalid config")

// BaseConfig controls the anchor an NPC returns to when it strays.
type BaseConfig struct {
	Enabled             bool    `yaml:"enabled"`
	ReturnDistance      float64 `yaml:"return_distance"`
	PlayerDistanceCheck float64 `yaml:"player_distance_check"`
	ArriveRadius        float64 `yaml:"arrive_radius"`
	Wobble              float64 `yaml:"wobble"`
}

// BarkConfig holds the one-liners shown above the NPC while a state lasts.
type BarkConfig struct {
	Idle     []string `yaml:"idle"`
	Find     []string `yaml:"find"`
	Run      []string `yaml:"run"`
	Die      []string `yaml:"die"`
	Interval float64  `yaml:"interval"`
}

// Lines returns the bark lines for a state.
func (b BarkConfig) Lines(s State) []string {
	switch s {
	case StateIdle:
		return b.Idle
	case StateFind:
		return b.Find
	case StateRun:
		return b.Run
	case StateDie:
		return b.Die
	default:
		return nil
	}
}

type RewardConfig struct {
	Prefab string    `yaml:"prefab"`
	Offset cp.Vector `yaml:"offset"`
}

// Config is the authoring-time tuning of one NPC. Speeds are in units per
// second, distances in units, durations in seconds.
type Config struct {
	WanderSpeed    float64 `yaml:"wander_speed"`
	ApproachSpeed  float64 `yaml:"approach_speed"`
	RunSpeed       float64 `yaml:"run_speed"`
	DieSpeed       float64 `yaml:"die_speed"`
	TauntSpeed     float64 `yaml:"taunt_speed"`
	DisappearSpeed float64 `yaml:"disappear_speed"`

	DetectionRange     float64 `yaml:"detection_range"`
	RunTriggerDistance float64 `yaml:"run_trigger_distance"`
	SafeDistance       float64 `yaml:"safe_distance"`
	WanderRadius       float64 `yaml:"wander_radius"`
	FleeDistance       float64 `yaml:"flee_distance"`
	EscapeRadius       float64 `yaml:"escape_radius"`
	DespawnDistance    float64 `yaml:"despawn_distance"`
	StoppingDistance   float64 `yaml:"stopping_distance"`
	TauntStopDistance  float64 `yaml:"taunt_stop_distance"`

	FindDelay       float64 `yaml:"find_delay"`
	RunFastDuration float64 `yaml:"run_fast_duration"`
	RunSlowFactor   float64 `yaml:"run_slow_factor"`
	NavRetryDelay   float64 `yaml:"nav_retry_delay"`
	RewardHold      float64 `yaml:"reward_hold"`

	WobbleAmount float64 `yaml:"wobble_amount"`
	TauntWobble  float64 `yaml:"taunt_wobble"`

	// IdleTimeoutState is entered when the player leaves the NPC alone for
	// FindDelay: "find" or "taunt".
	IdleTimeoutState string `yaml:"idle_timeout_state"`
	// FinalState is entered after capture: "die" or "disappear".
	FinalState        string `yaml:"final_state"`
	RemovePermanently bool   `yaml:"remove_permanently"`

	Base   BaseConfig   `yaml:"base"`
	Barks  BarkConfig   `yaml:"barks"`
	Reward RewardConfig `yaml:"reward"`
}

func DefaultConfig() Config {
	return Config{
		WanderSpeed:    6,
		ApproachSpeed:  10,
		RunSpeed:       8,
		DieSpeed:       13,
		TauntSpeed:     5,
		DisappearSpeed: 12,

		DetectionRange:     8,
		RunTriggerDistance: 5,
		SafeDistance:       30,
		WanderRadius:       18,
		FleeDistance:       20,
		EscapeRadius:       40,
		DespawnDistance:    50,
		StoppingDistance:   0.5,
		TauntStopDistance:  3,

		FindDelay:       3,
		RunFastDuration: 4,
		RunSlowFactor:   0.6,
		NavRetryDelay:   0.2,
		RewardHold:      1,

		WobbleAmount: 1,
		TauntWobble:  0.8,

		IdleTimeoutState: StateFind.String(),
		FinalState:       StateDie.String(),

		Base: BaseConfig{
			Enabled:             true,
			ReturnDistance:      30,
			PlayerDistanceCheck: 20,
			ArriveRadius:        1,
			Wobble:              0.2,
		},
		Barks:  BarkConfig{Interval: 3},
		Reward: RewardConfig{Offset: cp.Vector{X: 0, Y: -2}},
	}
}

// Validate rejects configs the machine cannot run with.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"wander_speed", c.WanderSpeed},
		{"approach_speed", c.ApproachSpeed},
		{"run_speed", c.RunSpeed},
		{"die_speed", c.DieSpeed},
		{"taunt_speed", c.TauntSpeed},
		{"disappear_speed", c.DisappearSpeed},
		{"detection_range", c.DetectionRange},
		{"run_trigger_distance", c.RunTriggerDistance},
		{"safe_distance", c.SafeDistance},
		{"wander_radius", c.WanderRadius},
		{"flee_distance", c.FleeDistance},
		{"escape_radius", c.EscapeRadius},
		{"despawn_distance", c.DespawnDistance},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidConfig, p.name, p.v)
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"stopping_distance", c.StoppingDistance},
		{"taunt_stop_distance", c.TauntStopDistance},
		{"find_delay", c.FindDelay},
		{"run_fast_duration", c.RunFastDuration},
		{"nav_retry_delay", c.NavRetryDelay},
		{"reward_hold", c.RewardHold},
		{"wobble_amount", c.WobbleAmount},
		{"taunt_wobble", c.TauntWobble},
		{"barks.interval", c.Barks.Interval},
	}
	for _, p := range nonNegative {
		if p.v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidConfig, p.name, p.v)
		}
	}

	if c.RunSlowFactor <= 0 || c.RunSlowFactor > 1 {
		return fmt.Errorf("%w: run_slow_factor must be in (0, 1], got %g", ErrInvalidConfig, c.RunSlowFactor)
	}
	if c.Base.Enabled && (c.Base.ReturnDistance <= 0 || c.Base.PlayerDistanceCheck <= 0) {
		return fmt.Errorf("%w: base distances must be positive", ErrInvalidConfig)
	}
	if _, err := c.idleTimeoutState(); err != nil {
		return err
	}
	if _, err := c.finalState(); err != nil {
		return err
	}
	return nil
}

func (c Config) idleTimeoutState() (State, error) {
	if c.IdleTimeoutState == "" {
		return StateFind, nil
	}
	s, err := ParseState(c.IdleTimeoutState)
	if err != nil || (s != StateFind && s != StateTaunt) {
		return StateFind, fmt.Errorf("%w: idle_timeout_state must be find or taunt, got %q", ErrInvalidConfig, c.IdleTimeoutState)
	}
	return s, nil
}

func (c Config) finalState() (State, error) {
	if c.FinalState == "" {
		return StateDie, nil
	}
	s, err := ParseState(c.FinalState)
	if err != nil || !s.Final() {
		return StateDie, fmt.Errorf("%w: final_state must be die or disappear, got %q", ErrInvalidConfig, c.FinalState)
	}
	return s, nil
}
