package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/fieldops/fieldtrack/internal/cache"
	"github.com/fieldops/fieldtrack/internal/clients/osrm"
	"github.com/fieldops/fieldtrack/internal/config"
	"github.com/fieldops/fieldtrack/internal/lib/animation"
	"github.com/fieldops/fieldtrack/internal/lib/maps"
	"github.com/fieldops/fieldtrack/internal/lib/session"
	"github.com/fieldops/fieldtrack/internal/lib/tracking"
)

// RouteClient is the routing capability the service depends on.
type RouteClient interface {
	CalculateRoute(ctx context.Context, request osrm.RouteRequest) (*osrm.RouteResult, error)
}

// routeState tracks per-session refresh bookkeeping: the request token for
// discarding superseded responses and a limiter spacing on-demand refreshes.
type routeState struct {
	seq     atomic.Uint64
	limiter *rate.Limiter
}

// TrackingService binds the engine together: it owns the session registry,
// pushes GPS samples into per-entity trackers, drives marker transitions,
// and maintains the cached route/ETA for each active session.
type TrackingService struct {
	routeClient RouteClient
	routeCache  *cache.RouteCache
	registry    *tracking.Registry
	animator    *animation.Animator
	config      *config.Config
	provider    maps.ProviderConfig

	mutex    sync.RWMutex
	sessions map[string]*session.Session
	routes   map[string]*routeState

	stopCleanup context.CancelFunc
}

// NewTrackingService creates a service with a real frame ticker.
func NewTrackingService(routeClient RouteClient, cfg *config.Config) *TrackingService {
	animator := animation.NewAnimatorWithScheduler(
		animation.NewTickerScheduler(cfg.Animation.FrameInterval()), time.Now)
	return NewTrackingServiceWithAnimator(routeClient, cfg, animator)
}

// NewTrackingServiceWithAnimator creates a service with an injected animator
// so tests can drive frames synthetically.
func NewTrackingServiceWithAnimator(routeClient RouteClient, cfg *config.Config, animator *animation.Animator) *TrackingService {
	s := &TrackingService{
		routeClient: routeClient,
		routeCache:  cache.NewRouteCache(),
		registry:    tracking.NewRegistry(),
		animator:    animator,
		config:      cfg,
		provider:    maps.SelectProvider(cfg.Providers),
		sessions:    make(map[string]*session.Session),
		routes:      make(map[string]*routeState),
	}

	// Expired route entries are swept in the background for the life of the
	// service; Close stops the sweeper.
	ctx, cancel := context.WithCancel(context.Background())
	s.stopCleanup = cancel
	if interval := cfg.Routing.RefreshInterval(); interval > 0 {
		s.routeCache.StartPeriodicCleanup(ctx, interval)
	}

	return s
}

// Close stops the service's background maintenance.
func (s *TrackingService) Close() {
	s.stopCleanup()
}

// Provider returns the map provider selected for this rendering session.
func (s *TrackingService) Provider() maps.ProviderConfig {
	return s.provider
}

// StartSession begins tracking one job's transit. Starting a session that is
// already active is an error; a session that previously reached a terminal
// state is replaced.
func (s *TrackingService) StartSession(id string, destination session.Destination, mode session.MovementMode) (*session.Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if existing, exists := s.sessions[id]; exists && existing.IsActive() {
		return nil, fmt.Errorf("session %s is already active", id)
	}

	if mode == "" {
		mode = session.MovementMode(s.config.Tracking.DefaultMode)
	}

	sess := session.New(id, destination, mode, s.registry.Tracker(id))
	s.sessions[id] = sess

	state := &routeState{}
	state.limiter = rate.NewLimiter(rate.Every(s.config.Routing.MinRefreshInterval()), 1)
	s.routes[id] = state

	log.Printf("Session %s started (%s to %s)", id, mode, destination.Address)
	return sess, nil
}

// Session returns a session by id.
func (s *TrackingService) Session(id string) (*session.Session, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	sess, exists := s.sessions[id]
	return sess, exists
}

// Ingest applies one GPS sample to a session in arrival order and, when the
// marker already had a position, starts a transition from the old estimate
// to the new one. The previous transition handle is cancelled before the new
// one starts, so only the newest animation drives the marker.
func (s *TrackingService) Ingest(id string, sample tracking.PositionSample, onUpdate animation.UpdateFunc) error {
	sess, exists := s.Session(id)
	if !exists {
		return fmt.Errorf("no session %s", id)
	}
	if !sess.IsActive() {
		return fmt.Errorf("session %s is %s; live updates stopped", id, sess.Status())
	}

	tracker := sess.Tracker()
	previous, hadPrevious := tracker.GetEstimatedPosition()
	tracker.AddPosition(sample)
	next, _ := tracker.GetEstimatedPosition()

	if hadPrevious && onUpdate != nil {
		cancel := s.animator.Animate(previous, next, onUpdate, nil, animation.Options{
			Duration: s.config.Animation.TransitionDuration(),
			Easing:   animation.Easing(s.config.Animation.Easing),
		})
		sess.SetAnimation(cancel)
	}
	return nil
}

// StartPulse runs the live-marker highlight for a session until the session
// leaves the active state.
func (s *TrackingService) StartPulse(id string, onPulse animation.PulseFunc) error {
	sess, exists := s.Session(id)
	if !exists {
		return fmt.Errorf("no session %s", id)
	}
	if !sess.IsActive() {
		return fmt.Errorf("session %s is %s; live updates stopped", id, sess.Status())
	}

	sess.SetPulse(s.animator.Pulse(onPulse, s.config.Animation.PulseIntervalMS))
	return nil
}

// RefreshRoute recomputes the session's route from its latest estimated
// position to the destination. A fresh cached route is returned as-is.
// Failures degrade: a stale-but-usable cached route if one exists, otherwise
// nil. "No route available now" is a normal, displayable state, never an
// error. When a newer refresh was issued while this one was in flight, the
// out-of-order response is discarded in favor of the latest state.
func (s *TrackingService) RefreshRoute(ctx context.Context, id string) (*osrm.RouteResult, error) {
	sess, exists := s.Session(id)
	if !exists {
		return nil, fmt.Errorf("no session %s", id)
	}
	if !sess.IsActive() {
		return nil, nil
	}

	origin, hasFix := sess.Tracker().GetEstimatedPosition()
	if !hasFix {
		return nil, nil
	}

	cacheKey := "route:" + id
	if route, found := s.routeCache.Get(cacheKey); found {
		return &route, nil
	}

	state := s.routeStateFor(id)
	if !state.limiter.Allow() {
		if route, found := s.routeCache.GetStale(cacheKey); found {
			return &route, nil
		}
		return nil, nil
	}

	token := state.seq.Add(1)

	requestCtx := ctx
	if timeout := s.config.Routing.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := s.routeClient.CalculateRoute(requestCtx, osrm.RouteRequest{
		Origin:      origin,
		Destination: sess.Destination().Point(),
		Mode:        string(sess.Mode()),
	})

	if state.seq.Load() != token {
		// A newer request superseded this one; discard the response.
		if route, found := s.routeCache.Get(cacheKey); found {
			return &route, nil
		}
		return nil, nil
	}

	if err != nil {
		log.Printf("Route refresh failed for session %s: %v", id, err)
		if route, found := s.routeCache.GetStale(cacheKey); found {
			return &route, nil
		}
		return nil, nil
	}

	s.routeCache.Set(cacheKey, *result, s.config.Routing.RefreshInterval())
	sess.SetRoute(result)
	return result, nil
}

// Arrive marks a session arrived, stopping all live updates for it.
func (s *TrackingService) Arrive(id string) error {
	return s.endSession(id, (*session.Session).Arrive, false)
}

// Complete marks an arrived session completed and releases its resources.
func (s *TrackingService) Complete(id string) error {
	return s.endSession(id, (*session.Session).Complete, true)
}

// CancelSession cancels an active session and releases its resources.
func (s *TrackingService) CancelSession(id string) error {
	return s.endSession(id, (*session.Session).Cancel, true)
}

func (s *TrackingService) endSession(id string, transition func(*session.Session) error, release bool) error {
	sess, exists := s.Session(id)
	if !exists {
		return fmt.Errorf("no session %s", id)
	}
	if err := transition(sess); err != nil {
		return err
	}

	s.routeCache.Delete("route:" + id)
	if release {
		s.registry.Remove(id)
		s.mutex.Lock()
		delete(s.routes, id)
		s.mutex.Unlock()
	}

	log.Printf("Session %s is now %s", id, sess.Status())
	return nil
}

func (s *TrackingService) routeStateFor(id string) *routeState {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, exists := s.routes[id]
	if !exists {
		state = &routeState{limiter: rate.NewLimiter(rate.Every(s.config.Routing.MinRefreshInterval()), 1)}
		s.routes[id] = state
	}
	return state
}
