package session

import (
	"fmt"
	"sync"

	"github.com/fieldops/fieldtrack/internal/clients/osrm"
	"github.com/fieldops/fieldtrack/internal/lib/animation"
	"github.com/fieldops/fieldtrack/internal/lib/geo"
	"github.com/fieldops/fieldtrack/internal/lib/tracking"
)

// Status is the lifecycle state of a tracking session. Transitions are
// one-directional: active → arrived → completed, or active → cancelled.
type Status string

const (
	StatusActive    Status = "active"
	StatusArrived   Status = "arrived"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// MovementMode selects the routing profile for a session.
type MovementMode string

const (
	ModeDriving MovementMode = "driving"
	ModeWalking MovementMode = "walking"
)

// Destination is where the tracked technician is headed.
type Destination struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Address   string  `json:"address"`
}

// Point returns the destination coordinate.
func (d Destination) Point() geo.Point {
	return geo.Point{Latitude: d.Latitude, Longitude: d.Longitude}
}

// Session binds one job's transit: while active, samples flow into the
// tracker and drive the animators; a terminal transition synchronously
// cancels any in-flight animation and pulse, clears the route overlay, and
// freezes the display on the destination.
type Session struct {
	mutex sync.Mutex

	id          string
	status      Status
	destination Destination
	mode        MovementMode

	tracker *tracking.PositionTracker
	route   *osrm.RouteResult

	animationCancel animation.CancelFunc
	pulseCancel     animation.CancelFunc
}

// New creates an active session for one job's transit.
func New(id string, destination Destination, mode MovementMode, tracker *tracking.PositionTracker) *Session {
	if mode == "" {
		mode = ModeDriving
	}
	return &Session{
		id:          id,
		status:      StatusActive,
		destination: destination,
		mode:        mode,
		tracker:     tracker,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Status() Status {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.status
}

func (s *Session) Destination() Destination { return s.destination }

func (s *Session) Mode() MovementMode { return s.mode }

// IsActive reports whether live updates still apply to this session.
func (s *Session) IsActive() bool {
	return s.Status() == StatusActive
}

// Tracker returns the session's position tracker.
func (s *Session) Tracker() *tracking.PositionTracker { return s.tracker }

// SetAnimation installs the cancel handle of the marker transition now in
// flight, cancelling any previous one first so only the newest animation
// drives the marker.
func (s *Session) SetAnimation(cancel animation.CancelFunc) {
	s.mutex.Lock()
	previous := s.animationCancel
	s.animationCancel = cancel
	s.mutex.Unlock()

	if previous != nil {
		previous()
	}
}

// SetPulse installs the cancel handle of the live-marker pulse, cancelling
// any previous one first.
func (s *Session) SetPulse(cancel animation.CancelFunc) {
	s.mutex.Lock()
	previous := s.pulseCancel
	s.pulseCancel = cancel
	s.mutex.Unlock()

	if previous != nil {
		previous()
	}
}

// SetRoute replaces the session's route overlay.
func (s *Session) SetRoute(route *osrm.RouteResult) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.route = route
}

// Route returns the current route overlay, or nil when none is available.
func (s *Session) Route() *osrm.RouteResult {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.route
}

// CurrentPosition returns the position the rendering layer should show: the
// destination once the session has frozen, otherwise the tracker's estimate.
func (s *Session) CurrentPosition() (geo.Point, bool) {
	if s.Status() != StatusActive {
		return s.destination.Point(), true
	}
	return s.tracker.GetEstimatedPosition()
}

// Arrive transitions active → arrived and stops all live updates.
func (s *Session) Arrive() error {
	return s.transition(StatusActive, StatusArrived)
}

// Complete transitions arrived → completed. Completed is terminal.
func (s *Session) Complete() error {
	return s.transition(StatusArrived, StatusCompleted)
}

// Cancel transitions active → cancelled. Cancelled is terminal and differs
// from completed only for reporting purposes.
func (s *Session) Cancel() error {
	return s.transition(StatusActive, StatusCancelled)
}

// transition performs a guarded one-directional status change. Leaving
// active freezes the session before the method returns, so no scheduled
// animation callback can fire afterwards.
func (s *Session) transition(from, to Status) error {
	s.mutex.Lock()
	if s.status != from {
		current := s.status
		s.mutex.Unlock()
		return fmt.Errorf("invalid transition %s → %s: session is %s", from, to, current)
	}
	s.status = to

	var cancels []animation.CancelFunc
	if from == StatusActive {
		cancels = append(cancels, s.animationCancel, s.pulseCancel)
		s.animationCancel = nil
		s.pulseCancel = nil
		s.route = nil
	}
	s.mutex.Unlock()

	for _, cancel := range cancels {
		if cancel != nil {
			cancel()
		}
	}
	if from == StatusActive {
		s.tracker.Clear()
	}
	return nil
}
