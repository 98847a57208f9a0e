package worklog

import (
	"time"

	"github.com/natikozel/Mapty/internal/workout"
)

// MapZoomLevel is the zoom a client moves to when a workout is selected.
const MapZoomLevel = 13

// View is everything a map or list client needs to render one workout.
type View struct {
	ID            string         `json:"id"`
	Type          workout.Type   `json:"type"`
	Date          time.Time      `json:"date"`
	Coords        workout.Coords `json:"coords"`
	Description   string         `json:"description"`
	Icon          string         `json:"icon"`
	Distance      float64        `json:"distance"`
	Duration      float64        `json:"duration"`
	Metric        float64        `json:"metric"`
	MetricUnit    string         `json:"metric_unit"`
	Secondary     float64        `json:"secondary"`
	SecondaryUnit string         `json:"secondary_unit"`
	Clicks        int            `json:"clicks"`
}

func NewView(w *workout.Workout) View {
	metric, metricUnit := w.Metric()
	secondary, secondaryUnit := w.Secondary()
	return View{
		ID:            w.ID,
		Type:          w.Type,
		Date:          w.Date,
		Coords:        w.Coords,
		Description:   w.Description,
		Icon:          w.Icon(),
		Distance:      w.Distance,
		Duration:      w.Duration,
		Metric:        metric,
		MetricUnit:    metricUnit,
		Secondary:     secondary,
		SecondaryUnit: secondaryUnit,
		Clicks:        w.Clicks,
	}
}

func newViews(workouts []workout.Workout) []View {
	out := make([]View, len(workouts))
	for i := range workouts {
		out[i] = NewView(&workouts[i])
	}
	return out
}

// Selection is returned when a list entry is clicked.
type Selection struct {
	Workout View `json:"workout"`
	Zoom    int  `json:"zoom"`
}

type Totals struct {
	Count       int     `json:"count"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
}

func (t Totals) add(w *workout.Workout) Totals {
	t.Count++
	t.DistanceKm += w.Distance
	t.DurationMin += w.Duration
	return t
}

type Summary struct {
	All    Totals                  `json:"all"`
	ByType map[workout.Type]Totals `json:"by_type"`
}
