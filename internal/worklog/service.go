package worklog

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"github.com/natikozel/Mapty/internal/events"
	"github.com/natikozel/Mapty/internal/export"
	"github.com/natikozel/Mapty/internal/observability"
	"github.com/natikozel/Mapty/internal/stream"
	"github.com/natikozel/Mapty/internal/workout"
)

// Broadcaster pushes a payload to connected map clients.
type Broadcaster interface {
	Broadcast(topic string, payload []byte)
}

// Service is the single controller of a session: it owns the log and routes
// form input through the factory before anything reaches the log.
type Service struct {
	log       *Log
	factory   *workout.Factory
	hub       Broadcaster
	publisher events.Publisher
}

// NewService wires the controller. hub and publisher may be nil.
func NewService(l *Log, factory *workout.Factory, hub Broadcaster, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{log: l, factory: factory, hub: hub, publisher: publisher}
}

// Create validates the form input, appends the workout and notifies
// listeners. Validation failures leave the log untouched. When only the
// persist fails, the returned view is valid and err is non-nil.
func (s *Service) Create(ctx context.Context, in workout.Input) (View, error) {
	w, err := s.factory.New(in)
	if err != nil {
		observability.RecordValidationFailure()
		return View{}, err
	}

	appendErr := s.log.Append(ctx, w)
	observability.RecordWorkoutCreated(string(w.Type))

	view := NewView(w)
	s.notify(ctx, events.Event{Kind: events.KindCreated, Key: w.ID, At: w.Date, Workout: view})
	return view, appendErr
}

func (s *Service) Get(id string) (View, error) {
	w, err := s.log.FindByID(id)
	if err != nil {
		return View{}, err
	}
	return NewView(w), nil
}

func (s *Service) Select(id string) (Selection, error) {
	w, err := s.log.Select(id)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Workout: NewView(w), Zoom: MapZoomLevel}, nil
}

func (s *Service) List() []View {
	return newViews(s.log.Workouts())
}

func (s *Service) Summary() Summary {
	return s.log.Summary()
}

func (s *Service) Near(lat, lng, radiusKm float64) []View {
	return newViews(s.log.Near(lat, lng, radiusKm))
}

// Export writes the log as a GPX document.
func (s *Service) Export(w io.Writer) error {
	return export.GPX(w, s.log.Workouts())
}

// Reset clears the log and its stored blob, then tells clients to start over.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.log.Reset(ctx); err != nil {
		return err
	}
	s.notify(ctx, events.Event{Kind: events.KindReset, At: time.Now()})
	return nil
}

func (s *Service) notify(ctx context.Context, event events.Event) {
	if s.hub != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Printf("encode %s event: %v", event.Kind, err)
		} else {
			s.hub.Broadcast(stream.TopicWorkouts, payload)
		}
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish %s event: %v", event.Kind, err)
	}
}
