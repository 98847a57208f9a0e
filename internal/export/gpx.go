// Package export renders the workout log into formats other tools can open.
package export

import (
	"fmt"
	"io"

	"github.com/natikozel/Mapty/internal/workout"

	"github.com/tkrajina/gpxgo/gpx"
)

// GPX writes one waypoint per workout, in log order.
func GPX(w io.Writer, workouts []workout.Workout) error {
	doc := gpx.GPX{
		Version: "1.1",
		Creator: "mapty",
		Name:    "Workouts",
	}
	for i := range workouts {
		wk := &workouts[i]
		metric, unit := wk.Metric()
		doc.Waypoints = append(doc.Waypoints, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  wk.Coords.Lat,
				Longitude: wk.Coords.Lng,
			},
			Timestamp:   wk.Date,
			Name:        wk.Description,
			Type:        string(wk.Type),
			Description: fmt.Sprintf("%.2f km in %.0f min, %.1f %s", wk.Distance, wk.Duration, metric, unit),
			Comment:     wk.ID,
		})
	}

	data, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
