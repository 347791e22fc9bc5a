package village

import (
	"fmt"
	"time"
)

const (
	DefaultInteractionDistance = 60.0
	DefaultMapWidth            = 800.0
	DefaultMapHeight           = 600.0
)

type Config struct {
	// Max distance at which the player can enter a shop or talk to a character.
	InteractionDistance float64

	// Map bounds; positions are clamped to [0,width]x[0,height].
	MapWidth  float64
	MapHeight float64

	// Player spawn point.
	Start Vec2

	// Clock for bag timestamps (nil => time.Now).
	Now func() time.Time
}

func DefaultConfig() Config {
	return Config{
		InteractionDistance: DefaultInteractionDistance,
		MapWidth:            DefaultMapWidth,
		MapHeight:           DefaultMapHeight,
		Start:               Vec2{X: 100, Y: 200},
	}
}

func (c Config) validate() error {
	if c.InteractionDistance <= 0 {
		return fmt.Errorf("InteractionDistance must be > 0")
	}
	if c.MapWidth <= 0 || c.MapHeight <= 0 {
		return fmt.Errorf("invalid map size: %vx%v", c.MapWidth, c.MapHeight)
	}
	if c.Start.X < 0 || c.Start.Y < 0 || c.Start.X > c.MapWidth || c.Start.Y > c.MapHeight {
		return fmt.Errorf("start position (%v,%v) outside map", c.Start.X, c.Start.Y)
	}
	return nil
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
