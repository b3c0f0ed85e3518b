package physics

import "errors"

var (
	ErrInvalidBall       = errors.New("ball radius and mass must be positive")
	ErrTooManyBalls      = errors.New("ball count exceeds table capacity")
	ErrNoCueBall         = errors.New("layout has no cue ball slot")
	ErrInvalidTable      = errors.New("table rectangle is empty")
	ErrInvalidFriction   = errors.New("friction must not be negative")
	ErrInvalidElasticity = errors.New("elasticity must be one of 0.5, 1.0, 1.5")
	ErrInvalidPower      = errors.New("power outside the allowed range")
)
