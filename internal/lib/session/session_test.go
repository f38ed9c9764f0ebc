package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/fieldtrack/internal/clients/osrm"
	"github.com/fieldops/fieldtrack/internal/lib/tracking"
)

var jobSite = Destination{Latitude: -34.61, Longitude: -58.40, Address: "Av. Caseros 400"}

func newActiveSession() *Session {
	return New("job-17", jobSite, ModeDriving, tracking.NewPositionTracker())
}

func TestSession_HappyPath(t *testing.T) {
	s := newActiveSession()
	assert.Equal(t, StatusActive, s.Status())
	assert.True(t, s.IsActive())

	require.NoError(t, s.Arrive())
	assert.Equal(t, StatusArrived, s.Status())
	assert.False(t, s.IsActive())

	require.NoError(t, s.Complete())
	assert.Equal(t, StatusCompleted, s.Status())
}

func TestSession_Cancellation(t *testing.T) {
	s := newActiveSession()

	require.NoError(t, s.Cancel())
	assert.Equal(t, StatusCancelled, s.Status())
}

func TestSession_NoResurrection(t *testing.T) {
	s := newActiveSession()
	require.NoError(t, s.Cancel())

	assert.Error(t, s.Arrive())
	assert.Error(t, s.Complete())
	assert.Error(t, s.Cancel())
	assert.Equal(t, StatusCancelled, s.Status())

	s = newActiveSession()
	require.NoError(t, s.Arrive())
	require.NoError(t, s.Complete())

	assert.Error(t, s.Cancel(), "completed sessions cannot be cancelled")
	assert.Error(t, s.Arrive())
	assert.Equal(t, StatusCompleted, s.Status())
}

func TestSession_CompleteRequiresArrival(t *testing.T) {
	s := newActiveSession()
	assert.Error(t, s.Complete(), "completion follows arrival")
	assert.Equal(t, StatusActive, s.Status())
}

func TestSession_TerminalTransitionFreezes(t *testing.T) {
	s := newActiveSession()

	animationCancelled := false
	pulseCancelled := false
	s.SetAnimation(func() { animationCancelled = true })
	s.SetPulse(func() { pulseCancelled = true })
	s.SetRoute(&osrm.RouteResult{Polyline: "abc", DurationMinutes: 6, DistanceKm: 2.5})
	s.Tracker().AddPosition(tracking.PositionSample{Latitude: -34.60, Longitude: -58.38, CapturedAtMs: 0})

	require.NoError(t, s.Arrive())

	assert.True(t, animationCancelled, "in-flight animation is cancelled synchronously")
	assert.True(t, pulseCancelled, "pulse is cancelled synchronously")
	assert.Nil(t, s.Route(), "route overlay is cleared")
	assert.Empty(t, s.Tracker().History(), "tracker is cleared")

	// Display freezes on the destination
	position, ok := s.CurrentPosition()
	require.True(t, ok)
	assert.Equal(t, jobSite.Latitude, position.Latitude)
	assert.Equal(t, jobSite.Longitude, position.Longitude)
}

func TestSession_SetAnimationCancelsPrevious(t *testing.T) {
	s := newActiveSession()

	firstCancelled := false
	s.SetAnimation(func() { firstCancelled = true })
	s.SetAnimation(func() {})

	assert.True(t, firstCancelled, "installing a new handle cancels the previous one")
}

func TestSession_DefaultsToDriving(t *testing.T) {
	s := New("job-18", jobSite, "", tracking.NewPositionTracker())
	assert.Equal(t, ModeDriving, s.Mode())
}
