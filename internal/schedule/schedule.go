// Package schedule implements the two-phase cooling schedule: a forward,
// non-restartable iterator over inverse-temperature values that starts
// additive (beta = k/(n*additiveRatio)) and, once it reaches its target,
// switches to multiplicative (beta *= gamma) before terminating.
package schedule

import "errors"

// ErrInvalidConfig is returned when n, AdditiveRatio, or MultiplicativeRatio is not positive.
var ErrInvalidConfig = errors.New("schedule: n, additive ratio, and multiplicative ratio must be positive")

// Config parameterizes the cooling schedule.
type Config struct {
	N                   int
	AdditiveRatio       int
	MultiplicativeRatio int
}

// log2Ceil returns ceil(log2(n)) for n >= 1.
func log2Ceil(n int) int {
	l := 0
	for (1 << l) < n {
		l++
	}

	return l
}

type phase int

const (
	phaseAdditive phase = iota
	phaseMultiplicative
	phaseDone
)

// Schedule is a single-pass forward iterator over beta values.
type Schedule struct {
	cfg   Config
	log   int
	phase phase

	// additive phase state
	current int
	target  int

	// multiplicative phase state
	value   float64
	gamma   float64
	times   int
	mTarget int
}

// New constructs a Schedule ready to emit its first value (beta=0).
func New(cfg Config) (*Schedule, error) {
	if cfg.N <= 0 || cfg.AdditiveRatio <= 0 || cfg.MultiplicativeRatio <= 0 {
		return nil, ErrInvalidConfig
	}
	l := log2Ceil(cfg.N)

	return &Schedule{
		cfg:    cfg,
		log:    l,
		phase:  phaseAdditive,
		target: cfg.AdditiveRatio * cfg.N * l,
	}, nil
}

// Next returns the next beta value and true, or (0, false) once the
// schedule is exhausted.
func (s *Schedule) Next() (float64, bool) {
	switch s.phase {
	case phaseAdditive:
		value := float64(s.current) / float64(s.cfg.N*s.cfg.AdditiveRatio)
		if s.current == s.target {
			s.mTarget = s.log * s.log * s.cfg.N * s.cfg.MultiplicativeRatio
			if s.mTarget == 0 {
				// N=1: log is 0, so there is no multiplicative phase.
				s.phase = phaseDone
			} else {
				s.gamma = 1.0 + 1.0/float64(s.cfg.N*s.log*s.cfg.MultiplicativeRatio)
				s.value = value * s.gamma
				s.times = 1
				s.phase = phaseMultiplicative
			}
		} else {
			s.current++
		}

		return value, true

	case phaseMultiplicative:
		value := s.value
		if s.times == s.mTarget {
			s.phase = phaseDone
		} else {
			s.value *= s.gamma
			s.times++
		}

		return value, true

	default:
		return 0, false
	}
}
