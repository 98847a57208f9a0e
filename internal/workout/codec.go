package workout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// BlobVersion is written into every encoded log.
const BlobVersion = 1

// ErrCorruptBlob matches every *DecodeError.
var ErrCorruptBlob = errors.New("corrupt workout blob")

// DecodeError reports a stored log that is present but cannot be read back.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode workout blob: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrCorruptBlob, e.Err}
}

// record is the flat stored shape of a workout. Derived fields are stored,
// never recomputed on the way back in.
type record struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	Type          Type      `json:"type"`
	Distance      float64   `json:"distance"`
	Duration      float64   `json:"duration"`
	Coords        Coords    `json:"coords"`
	Description   string    `json:"description"`
	Clicks        int       `json:"clicks"`
	Cadence       *float64  `json:"cadence,omitempty"`
	Pace          *float64  `json:"pace,omitempty"`
	ElevationGain *float64  `json:"elevationGain,omitempty"`
	Speed         *float64  `json:"speed,omitempty"`
}

type envelope struct {
	Version  int        `json:"version"`
	Workouts []*Workout `json:"workouts"`
}

func (w *Workout) MarshalJSON() ([]byte, error) {
	if err := w.Check(); err != nil {
		return nil, err
	}
	rec := record{
		ID:          w.ID,
		Date:        w.Date,
		Type:        w.Type,
		Distance:    w.Distance,
		Duration:    w.Duration,
		Coords:      w.Coords,
		Description: w.Description,
		Clicks:      w.Clicks,
	}
	switch w.Type {
	case Running:
		cadence := float64(w.Run.Cadence)
		rec.Cadence, rec.Pace = &cadence, &w.Run.Pace
	case Cycling:
		rec.ElevationGain, rec.Speed = &w.Ride.ElevationGain, &w.Ride.Speed
	}
	return json.Marshal(rec)
}

func (w *Workout) UnmarshalJSON(data []byte) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.ID == "" {
		return errors.New("workout without id")
	}
	if rec.Description == "" {
		return fmt.Errorf("workout %s without description", rec.ID)
	}

	out := Workout{
		ID:          rec.ID,
		Date:        rec.Date,
		Type:        rec.Type,
		Distance:    rec.Distance,
		Duration:    rec.Duration,
		Coords:      rec.Coords,
		Description: rec.Description,
		Clicks:      rec.Clicks,
	}
	switch rec.Type {
	case Running:
		if rec.Cadence == nil || rec.Pace == nil {
			return fmt.Errorf("running workout %s without cadence or pace", rec.ID)
		}
		out.Run = &RunStats{Cadence: int(math.Round(*rec.Cadence)), Pace: *rec.Pace}
	case Cycling:
		if rec.ElevationGain == nil || rec.Speed == nil {
			return fmt.Errorf("cycling workout %s without elevation gain or speed", rec.ID)
		}
		out.Ride = &RideStats{ElevationGain: *rec.ElevationGain, Speed: *rec.Speed}
	default:
		return fmt.Errorf("workout %s has unknown type %q", rec.ID, rec.Type)
	}

	*w = out
	return nil
}

// Encode serializes the ordered log into one versioned blob.
func Encode(workouts []*Workout) ([]byte, error) {
	if workouts == nil {
		workouts = []*Workout{}
	}
	return json.Marshal(envelope{Version: BlobVersion, Workouts: workouts})
}

// Decode restores the ordered log from a blob written by Encode. A bare JSON
// array, the layout the browser client stored, is read as version 0.
// Failures are *DecodeError.
func Decode(data []byte) ([]*Workout, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &DecodeError{Err: errors.New("empty blob")}
	}

	var workouts []*Workout
	switch {
	case bytes.Equal(data, []byte("null")):
		return []*Workout{}, nil
	case data[0] == '[':
		if err := json.Unmarshal(data, &workouts); err != nil {
			return nil, &DecodeError{Err: err}
		}
	case data[0] == '{':
		var env struct {
			Version  int             `json:"version"`
			Workouts json.RawMessage `json:"workouts"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, &DecodeError{Err: err}
		}
		if env.Version != BlobVersion {
			return nil, &DecodeError{Err: fmt.Errorf("unsupported blob version %d", env.Version)}
		}
		if len(env.Workouts) > 0 {
			if err := json.Unmarshal(env.Workouts, &workouts); err != nil {
				return nil, &DecodeError{Err: err}
			}
		}
	default:
		return nil, &DecodeError{Err: errors.New("blob is not a JSON array or object")}
	}

	for i, w := range workouts {
		if w == nil {
			return nil, &DecodeError{Err: fmt.Errorf("null workout at index %d", i)}
		}
	}
	if workouts == nil {
		workouts = []*Workout{}
	}
	return workouts, nil
}
