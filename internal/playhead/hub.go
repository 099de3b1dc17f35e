// Package playhead fans playback-time updates out to chart overlays. It never
// touches chart composition: an update only moves the playhead shape.
package playhead

import (
	"math"
	"strconv"
	"sync"
)

// Overlay is a lightweight relayout of the playhead shape on the chart.
type Overlay struct {
	Shape int     `json:"shape"`
	X0    float64 `json:"x0"`
	X1    float64 `json:"x1"`
}

// RelayoutKeys returns the Plotly relayout update for the overlay.
func (o Overlay) RelayoutKeys() map[string]float64 {
	prefix := "shapes[" + strconv.Itoa(o.Shape) + "]."
	return map[string]float64{
		prefix + "x0": o.X0,
		prefix + "x1": o.X1,
	}
}

// OverlayAt returns the overlay for playback time t. Negative times clamp to 0.
// ok is false for NaN or infinite times.
func OverlayAt(t float64) (Overlay, bool) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return Overlay{}, false
	}
	if t < 0 {
		t = 0
	}
	return Overlay{Shape: 0, X0: t, X1: t}, true
}

type subscriber struct {
	ch chan Overlay
}

// Hub routes overlays to the subscribers of each session. Every subscriber
// keeps only the most recent overlay, so publishers never block.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{})}
}

// Subscribe registers for the overlays of a session. The returned cancel
// function unregisters and closes the channel.
func (h *Hub) Subscribe(session string) (<-chan Overlay, func()) {
	s := &subscriber{ch: make(chan Overlay, 1)}

	h.mu.Lock()
	if h.subs[session] == nil {
		h.subs[session] = make(map[*subscriber]struct{})
	}
	h.subs[session][s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[session], s)
			if len(h.subs[session]) == 0 {
				delete(h.subs, session)
			}
			close(s.ch)
		})
	}
	return s.ch, cancel
}

// Publish sends the overlay for time t to every subscriber of the session and
// reports how many received it. Invalid times are dropped.
func (h *Hub) Publish(session string, t float64) (Overlay, int) {
	o, ok := OverlayAt(t)
	if !ok {
		return Overlay{}, 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for s := range h.subs[session] {
		// replace a stale value instead of blocking
		select {
		case <-s.ch:
		default:
		}
		s.ch <- o
		n++
	}
	return o, n
}

// Subscribers returns the number of live subscribers for a session.
func (h *Hub) Subscribers(session string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[session])
}
