package usecase

import (
	"math/rand"
	"time"
)

// Clock is the time source for lead-time, business-hour and cancellation checks.
type Clock interface {
	Now() time.Time
}

// RandomSource picks an index in [0, n). n is always > 0.
type RandomSource interface {
	IntN(n int) int
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

type defaultRandom struct{}

func NewDefaultRandom() RandomSource {
	return defaultRandom{}
}

func (defaultRandom) IntN(n int) int {
	return rand.Intn(n)
}
