// Package workout holds the workout domain model: the running and cycling
// variants, their derived metrics, and the factory that validates raw input.
package workout

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Type string

const (
	Running Type = "running"
	Cycling Type = "cycling"
)

// Coords is a (latitude, longitude) pair. It travels as a two-element JSON
// array so blobs written by the browser client decode unchanged.
type Coords struct {
	Lat float64
	Lng float64
}

func (c Coords) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

func (c *Coords) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("coords: expected 2 values, got %d", len(pair))
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}

// RunStats is the running half of the variant union.
type RunStats struct {
	Cadence int     // steps/min
	Pace    float64 // min/km
}

// RideStats is the cycling half of the variant union.
type RideStats struct {
	ElevationGain float64 // m, may be zero or negative
	Speed         float64 // km/h
}

// Workout is one logged activity. Exactly one of Run and Ride is set and it
// agrees with Type. Everything except Clicks is fixed at construction.
type Workout struct {
	ID          string
	Date        time.Time
	Type        Type
	Distance    float64 // km
	Duration    float64 // min
	Coords      Coords
	Description string
	Clicks      int

	Run  *RunStats
	Ride *RideStats
}

// NewRunning builds a running workout and computes its pace and description.
func NewRunning(id string, at time.Time, coords Coords, distance, duration float64, cadence int) *Workout {
	return &Workout{
		ID:          id,
		Date:        at,
		Type:        Running,
		Distance:    distance,
		Duration:    duration,
		Coords:      coords,
		Description: Describe(Running, at),
		Run: &RunStats{
			Cadence: cadence,
			Pace:    duration / distance,
		},
	}
}

// NewCycling builds a cycling workout and computes its speed and description.
func NewCycling(id string, at time.Time, coords Coords, distance, duration, elevationGain float64) *Workout {
	return &Workout{
		ID:          id,
		Date:        at,
		Type:        Cycling,
		Distance:    distance,
		Duration:    duration,
		Coords:      coords,
		Description: Describe(Cycling, at),
		Ride: &RideStats{
			ElevationGain: elevationGain,
			Speed:         distance / (duration / 60),
		},
	}
}

// Clone returns a deep copy; the variant stats are not shared.
func (w *Workout) Clone() *Workout {
	cp := *w
	if w.Run != nil {
		run := *w.Run
		cp.Run = &run
	}
	if w.Ride != nil {
		ride := *w.Ride
		cp.Ride = &ride
	}
	return &cp
}

// Click records a selection of the workout.
func (w *Workout) Click() {
	w.Clicks++
}

// Metric returns the derived metric and its unit: pace for runs, speed for rides.
func (w *Workout) Metric() (float64, string) {
	switch w.Type {
	case Running:
		return w.Run.Pace, "min/km"
	case Cycling:
		return w.Ride.Speed, "km/h"
	default:
		panic(fmt.Sprintf("workout: unhandled type %q", w.Type))
	}
}

// Secondary returns the type-specific attribute: cadence or elevation gain.
func (w *Workout) Secondary() (float64, string) {
	switch w.Type {
	case Running:
		return float64(w.Run.Cadence), "spm"
	case Cycling:
		return w.Ride.ElevationGain, "m"
	default:
		panic(fmt.Sprintf("workout: unhandled type %q", w.Type))
	}
}

// Icon is the marker glyph shown next to the description.
func (w *Workout) Icon() string {
	switch w.Type {
	case Running:
		return "🏃‍♂️"
	case Cycling:
		return "🚴‍♀️"
	default:
		return ""
	}
}

// Check reports whether the variant union is consistent with Type.
func (w *Workout) Check() error {
	switch w.Type {
	case Running:
		if w.Run == nil || w.Ride != nil {
			return errors.New("running workout without running stats")
		}
	case Cycling:
		if w.Ride == nil || w.Run != nil {
			return errors.New("cycling workout without cycling stats")
		}
	default:
		return fmt.Errorf("unknown workout type %q", w.Type)
	}
	return nil
}
