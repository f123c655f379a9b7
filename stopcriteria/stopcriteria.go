// Package stopcriteria provides the predicates that end the evolutionary
// loop. Every criterion is a pure function of the statistics snapshot: it
// inspects values, never mutates them, and returns true when the outer loop
// should stop.
package stopcriteria

import (
	"errors"

	"github.com/katalvlaran/moea/stats"
)

// ErrBadDepth indicates a progress criterion with a non-positive depth.
var ErrBadDepth = errors.New("stopcriteria: depth must be positive")

// StopMode is a bitmask describing how the desired value can be reached.
type StopMode int

const (
	// StopIfLower stops when the observed value is below the desired one.
	StopIfLower StopMode = 1 << iota

	// StopIfHigher stops when the observed value is above the desired one.
	StopIfHigher

	// StopIfEqual stops when the observed value equals the desired one.
	StopIfEqual
)

// Criterion decides whether the evolutionary loop should stop.
type Criterion interface {
	Evaluate(s *stats.Statistics) (bool, error)
}

// reached tests a three-way comparison result against the stop mode.
func reached(cmp int, mode StopMode) bool {
	return (mode&StopIfHigher != 0 && cmp > 0) ||
		(mode&StopIfLower != 0 && cmp < 0) ||
		(mode&StopIfEqual != 0 && cmp == 0)
}

// compareOrdered is the default three-way comparison for numeric values.
func compareOrdered[T stats.Number](a, b T) int {
	switch {
	case a > b:
		return 1
	case b > a:
		return -1
	default:
		return 0
	}
}

// GenerationCount stops after the configured number of generations.
type GenerationCount struct {
	// Count is the generation at which to stop.
	Count int
}

// Evaluate implements Criterion.
func (c GenerationCount) Evaluate(s *stats.Statistics) (bool, error) {
	return s.CurrentGeneration() == c.Count, nil
}

// StatsValue stops when a statistic's current value reaches the desired
// value in the configured mode.
type StatsValue[T stats.Number] struct {
	// ValueID names the statistic to watch.
	ValueID int

	// Desired is the target value.
	Desired T

	// Mode describes how Desired can be reached.
	Mode StopMode
}

// Evaluate implements Criterion.
func (c StatsValue[T]) Evaluate(s *stats.Statistics) (bool, error) {
	v, err := stats.Get[T](s, c.ValueID)
	if err != nil {
		return false, err
	}

	cur, ok := v.Current()
	if !ok {
		return false, nil
	}

	return reached(compareOrdered(cur, c.Desired), c.Mode), nil
}

// StatsProgress stops when a statistic's absolute progress over a history
// window reaches the desired value.
type StatsProgress[T stats.Number] struct {
	// ValueID names the statistic to watch.
	ValueID int

	// Depth is the history window in generations.
	Depth int

	// Desired is the target progress.
	Desired T

	// Mode describes how Desired can be reached.
	Mode StopMode
}

// Evaluate implements Criterion.
func (c StatsProgress[T]) Evaluate(s *stats.Statistics) (bool, error) {
	if c.Depth < 1 {
		return false, ErrBadDepth
	}

	v, err := stats.Get[T](s, c.ValueID)
	if err != nil {
		return false, err
	}

	// not enough history to judge yet
	if v.CurrentDepth() < c.Depth {
		return false, nil
	}

	progress, err := v.Progress(c.Depth)
	if err != nil {
		return false, err
	}

	return reached(compareOrdered(progress, c.Desired), c.Mode), nil
}

// StatsRelativeProgress stops when a statistic's relative progress over a
// history window reaches the desired ratio.
type StatsRelativeProgress struct {
	// ValueID names the statistic to watch.
	ValueID int

	// Depth is the history window in generations.
	Depth int

	// Desired is the target relative progress.
	Desired float64

	// Mode describes how Desired can be reached.
	Mode StopMode
}

// Evaluate implements Criterion.
func (c StatsRelativeProgress) Evaluate(s *stats.Statistics) (bool, error) {
	if c.Depth < 1 {
		return false, ErrBadDepth
	}

	entry, err := s.Entry(c.ValueID)
	if err != nil {
		return false, err
	}

	if entry.CurrentDepth() < c.Depth {
		return false, nil
	}

	progress, err := entry.RelativeProgress(c.Depth)
	if err != nil {
		return false, err
	}

	return reached(compareOrdered(progress, c.Desired), c.Mode), nil
}

// StatsChanges stops when a statistic has not changed for the configured
// number of generations.
type StatsChanges struct {
	// ValueID names the statistic to watch.
	ValueID int

	// Generations is the required length of the unchanged streak.
	Generations int
}

// Evaluate implements Criterion.
func (c StatsChanges) Evaluate(s *stats.Statistics) (bool, error) {
	entry, err := s.Entry(c.ValueID)
	if err != nil {
		return false, err
	}

	return entry.LastChange() >= c.Generations, nil
}
