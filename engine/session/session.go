// Package session manages per-user monitoring sessions. Each session owns
// its own fatigue detector and biorhythm analyzer so that one user's
// streams never bleed into another's.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/neuroalign/neuroalign/engine/biorhythm"
	"github.com/neuroalign/neuroalign/engine/fatigue"
)

// Rate limits for inbound analysis events. Webcam frames arrive at ~1 FPS
// from well-behaved clients; the burst absorbs reconnect replays.
const (
	frameRateLimit  = rate.Limit(5)
	frameRateBurst  = 15
	eventRateLimit  = rate.Limit(10)
	eventRateBurst  = 30
	cleanupInterval = time.Minute
)

// Session binds one user's analyzer state together. The detector and
// analyzer are unsynchronized; Session.mu serializes all event processing
// for the session.
type Session struct {
	ID     string
	UserID string

	mu         sync.Mutex
	detector   *fatigue.Detector
	analyzer   *biorhythm.Analyzer
	createdAt  time.Time
	lastActive time.Time

	frameLimiter *rate.Limiter
	eventLimiter *rate.Limiter
}

// Touch updates the idle-timeout clock.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// AllowFrame reports whether another webcam frame may be processed now.
func (s *Session) AllowFrame() bool { return s.frameLimiter.Allow() }

// AllowEvent reports whether another typing or biosignal event may be
// processed now.
func (s *Session) AllowEvent() bool { return s.eventLimiter.Allow() }

// WithDetector runs fn with exclusive access to the session's fatigue
// detector and refreshes the activity clock.
func (s *Session) WithDetector(fn func(*fatigue.Detector)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	fn(s.detector)
}

// WithAnalyzer runs fn with exclusive access to the session's biorhythm
// analyzer and refreshes the activity clock.
func (s *Session) WithAnalyzer(fn func(*biorhythm.Analyzer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	fn(s.analyzer)
}

// WithBoth runs fn with exclusive access to both engines, for operations
// such as the overall assessment that blend fatigue and biorhythm state.
func (s *Session) WithBoth(fn func(*fatigue.Detector, *biorhythm.Analyzer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	fn(s.detector, s.analyzer)
}

// LastActive returns the time of the most recent event.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Registry tracks the active sessions and reaps idle ones.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	logger      *slog.Logger
	idleTimeout time.Duration
	newDetector func() *fatigue.Detector
	newAnalyzer func() *biorhythm.Analyzer
	done        chan struct{}
	closeOnce   sync.Once
}

// RegistryConfig tunes a Registry.
type RegistryConfig struct {
	Logger      *slog.Logger
	IdleTimeout time.Duration

	// NewDetector and NewAnalyzer build the per-session engines. Nil
	// factories fall back to the defaults.
	NewDetector func() *fatigue.Detector
	NewAnalyzer func() *biorhythm.Analyzer
}

// NewRegistry creates a registry and starts its idle-cleanup goroutine.
// Callers must Shutdown the registry to release it.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	if cfg.NewDetector == nil {
		cfg.NewDetector = func() *fatigue.Detector { return fatigue.NewDetector(fatigue.Config{}) }
	}
	if cfg.NewAnalyzer == nil {
		cfg.NewAnalyzer = func() *biorhythm.Analyzer { return biorhythm.NewAnalyzer() }
	}

	r := &Registry{
		sessions:    make(map[string]*Session),
		logger:      cfg.Logger,
		idleTimeout: cfg.IdleTimeout,
		newDetector: cfg.NewDetector,
		newAnalyzer: cfg.NewAnalyzer,
		done:        make(chan struct{}),
	}
	go r.cleanupLoop()
	return r
}

// GetOrCreate returns the session with the given ID, creating it when
// absent. An empty sessionID mints a fresh one.
func (r *Registry) GetOrCreate(sessionID, userID string) *Session {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[sessionID]; ok {
		return sess
	}

	now := time.Now()
	sess := &Session{
		ID:           sessionID,
		UserID:       userID,
		detector:     r.newDetector(),
		analyzer:     r.newAnalyzer(),
		createdAt:    now,
		lastActive:   now,
		frameLimiter: rate.NewLimiter(frameRateLimit, frameRateBurst),
		eventLimiter: rate.NewLimiter(eventRateLimit, eventRateBurst),
	}
	r.sessions[sessionID] = sess
	r.logger.Info("session created", "session_id", sessionID, "user_id", userID)
	return sess
}

// Get retrieves an active session.
func (r *Registry) Get(sessionID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[sessionID]
	return sess, ok
}

// Terminate removes a session and discards its analyzer state.
func (r *Registry) Terminate(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; ok {
		delete(r.sessions, sessionID)
		r.logger.Info("session terminated", "session_id", sessionID)
	}
}

// List returns all active sessions.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	return list
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Shutdown stops the cleanup goroutine and drops all sessions.
func (r *Registry) Shutdown() {
	r.closeOnce.Do(func() { close(r.done) })

	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.sessions {
		delete(r.sessions, id)
	}
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reapIdle()
		case <-r.done:
			return
		}
	}
}

func (r *Registry) reapIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, sess := range r.sessions {
		idle := now.Sub(sess.LastActive())
		if idle > r.idleTimeout {
			r.logger.Info("session idle timeout, terminating",
				"session_id", id,
				"idle_duration", idle,
				"timeout", r.idleTimeout)
			delete(r.sessions, id)
		}
	}
}
