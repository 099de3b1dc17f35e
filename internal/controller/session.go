package controller

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"audiodash/models"
)

// ViewState is the per-session display state.
type ViewState int

const (
	Idle ViewState = iota
	Loading
	Displayed
)

func (s ViewState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Displayed:
		return "displayed"
	default:
		return fmt.Sprintf("ViewState(%d)", int(s))
	}
}

// MarshalText renders the state by name in JSON.
func (s ViewState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var allowedTransitions = map[ViewState][]ViewState{
	Idle:      {Loading},
	Loading:   {Displayed},
	Displayed: {Loading},
}

// Session is the UI state of one browser session. It is mutated only by
// controller events.
type Session struct {
	ID uuid.UUID

	mu          sync.Mutex
	state       ViewState
	trackID     string
	navbarOpen  bool
	chart       *models.ChartSpec
	placeholder string
	audioURL    string
	playhead    float64
	selections  int
}

// NewSession returns an idle session with a fresh id.
func NewSession() *Session {
	return &Session{ID: uuid.New()}
}

// SessionView is a read-only copy of a session's state.
type SessionView struct {
	ID          string            `json:"session_id"`
	State       ViewState         `json:"state"`
	TrackID     string            `json:"track_id,omitempty"`
	NavbarOpen  bool              `json:"navbar_open"`
	Chart       *models.ChartSpec `json:"chart,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	AudioURL    string            `json:"audio_url,omitempty"`
	Playhead    float64           `json:"playhead"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionView{
		ID:          s.ID.String(),
		State:       s.state,
		TrackID:     s.trackID,
		NavbarOpen:  s.navbarOpen,
		Chart:       s.chart,
		Placeholder: s.placeholder,
		AudioURL:    s.audioURL,
		Playhead:    s.playhead,
	}
}

// transition moves the session to next. Callers hold s.mu.
func (s *Session) transition(next ViewState) error {
	for _, allowed := range allowedTransitions[s.state] {
		if allowed == next {
			s.state = next
			return nil
		}
	}
	return fmt.Errorf("illegal view transition %s -> %s", s.state, next)
}

// Sessions holds the live sessions keyed by id.
type Sessions struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*Session
}

func NewSessions() *Sessions {
	return &Sessions{byID: make(map[uuid.UUID]*Session)}
}

// Get returns the session with the given id.
func (ss *Sessions) Get(id string) (*Session, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.byID[parsed]
	return s, ok
}

// GetOrCreate returns the session for id, starting a new one when id is
// unknown or malformed. created reports whether a new session was started.
func (ss *Sessions) GetOrCreate(id string) (s *Session, created bool) {
	if existing, ok := ss.Get(id); ok {
		return existing, false
	}
	s = NewSession()
	ss.mu.Lock()
	ss.byID[s.ID] = s
	ss.mu.Unlock()
	return s, true
}

// Len returns the number of live sessions.
func (ss *Sessions) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.byID)
}
