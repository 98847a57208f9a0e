package workout

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("workout validation failed")

const (
	reasonPositive          = "Inputs have to be positive numbers!"
	reasonPositiveElevation = "Inputs have to be positive numbers! (except the Elev gain)"
	reasonCoords            = "Coordinates have to be a valid latitude and longitude!"
	reasonType              = "unknown workout type"
)

// ValidationError carries the user-facing reason a form was refused.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Raw is an unparsed form value. It accepts JSON strings, numbers and null.
type Raw string

func (r *Raw) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Raw(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = Raw(n.String())
	return nil
}

// Float parses the value; ok is false for absent, malformed or non-finite input.
func (r Raw) Float() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(r)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Input is the raw submission of the workout form plus the clicked map point.
type Input struct {
	Type      string `json:"type" form:"type"`
	Distance  Raw    `json:"distance" form:"distance"`
	Duration  Raw    `json:"duration" form:"duration"`
	Cadence   Raw    `json:"cadence" form:"cadence"`
	Elevation Raw    `json:"elevation" form:"elevation"`
	Lat       Raw    `json:"lat" form:"lat"`
	Lng       Raw    `json:"lng" form:"lng"`
}

// Factory is the only place workouts are created.
type Factory struct {
	Now   func() time.Time
	NewID func() string
}

func NewFactory() *Factory {
	return &Factory{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// New validates in and builds the matching variant. It returns a
// *ValidationError and no workout when any check fails.
func (f *Factory) New(in Input) (*Workout, error) {
	coords, err := parseCoords(in.Lat, in.Lng)
	if err != nil {
		return nil, err
	}

	switch Type(strings.TrimSpace(in.Type)) {
	case Running:
		v, ok := finite(in.Distance, in.Duration, in.Cadence)
		if !ok || !positive(v...) {
			return nil, &ValidationError{Reason: reasonPositive}
		}
		cadence := int(math.Round(v[2]))
		if cadence < 1 {
			return nil, &ValidationError{Reason: reasonPositive}
		}
		return NewRunning(f.NewID(), f.Now(), coords, v[0], v[1], cadence), nil

	case Cycling:
		v, ok := finite(in.Distance, in.Duration, in.Elevation)
		if !ok || !positive(v[:2]...) {
			return nil, &ValidationError{Reason: reasonPositiveElevation}
		}
		return NewCycling(f.NewID(), f.Now(), coords, v[0], v[1], v[2]), nil

	default:
		return nil, &ValidationError{Reason: reasonType}
	}
}

// parseCoords accepts any finite longitude and wraps it into [-180, 180);
// a map panned across the antimeridian reports unwrapped values.
func parseCoords(lat, lng Raw) (Coords, error) {
	v, ok := finite(lat, lng)
	if !ok || v[0] < -90 || v[0] > 90 {
		return Coords{}, &ValidationError{Reason: reasonCoords}
	}
	return Coords{Lat: v[0], Lng: wrapLng(v[1])}, nil
}

func wrapLng(lng float64) float64 {
	w := math.Mod(lng+180, 360)
	if w < 0 {
		w += 360
	}
	return w - 180
}

func finite(fields ...Raw) ([]float64, bool) {
	out := make([]float64, len(fields))
	for i, field := range fields {
		v, ok := field.Float()
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func positive(values ...float64) bool {
	for _, v := range values {
		if v <= 0 {
			return false
		}
	}
	return true
}
