package ai

import (
	"errors"
	"fmt"
)

var (
	ErrNilBody       = errors.New("ai: controller needs a body")
	ErrNilGraph      = errors.New("ai: controller needs a waypoint graph")
	ErrInvalidConfig = errors.New("ai: invalid controller config")
)

// Config tunes the movement controller. Forces are in the same units the
// physics integrator consumes.
type Config struct {
	Speed     float64 `yaml:"speed"`
	JumpSpeed float64 `yaml:"jump_speed"`
	// MinDistance is the horizontal dead zone around a steering target.
	MinDistance float64 `yaml:"min_distance"`
	// VerticalThreshold separates horizontal hops from vertical ones.
	VerticalThreshold float64 `yaml:"vertical_threshold"`
	// Leniency divides the braking check; CarryLeniency multiplies it when
	// the route keeps going the same way past the target.
	Leniency      float64 `yaml:"leniency"`
	CarryLeniency float64 `yaml:"carry_leniency"`
	// JumpEdgeOffset is how far outside a target platform's edge the agent
	// centre takes off for an upward jump.
	JumpEdgeOffset float64 `yaml:"jump_edge_offset"`
	// JumpRange is the horizontal slack allowed at the takeoff point.
	JumpRange float64 `yaml:"jump_range"`
	// MaxWait bounds how long the agent rides a platform waiting for a
	// moving target to line up.
	MaxWait float64 `yaml:"max_wait"`
	// GiveUp is the longest a single travel leg may take before the
	// controller declares itself lost.
	GiveUp float64 `yaml:"give_up"`
}

func DefaultConfig() Config {
	return Config{
		Speed:             50,
		JumpSpeed:         6500,
		MinDistance:       0.5,
		VerticalThreshold: 15,
		Leniency:          1,
		CarryLeniency:     2.5,
		JumpEdgeOffset:    40,
		JumpRange:         8,
		MaxWait:           4,
		GiveUp:            8,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Speed <= 0:
		return fmt.Errorf("ai: speed %v: %w", c.Speed, ErrInvalidConfig)
	case c.JumpSpeed < 0:
		return fmt.Errorf("ai: jump speed %v: %w", c.JumpSpeed, ErrInvalidConfig)
	case c.MinDistance < 0:
		return fmt.Errorf("ai: min distance %v: %w", c.MinDistance, ErrInvalidConfig)
	case c.VerticalThreshold < 0:
		return fmt.Errorf("ai: vertical threshold %v: %w", c.VerticalThreshold, ErrInvalidConfig)
	case c.Leniency <= 0 || c.CarryLeniency <= 0:
		return fmt.Errorf("ai: leniency %v/%v: %w", c.Leniency, c.CarryLeniency, ErrInvalidConfig)
	case c.JumpRange < 0 || c.JumpEdgeOffset < 0:
		return fmt.Errorf("ai: jump range %v offset %v: %w", c.JumpRange, c.JumpEdgeOffset, ErrInvalidConfig)
	case c.MaxWait <= 0 || c.GiveUp <= 0:
		return fmt.Errorf("ai: timers %v/%v: %w", c.MaxWait, c.GiveUp, ErrInvalidConfig)
	}
	return nil
}
