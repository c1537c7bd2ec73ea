package resonance

import (
	"context"
	"log/slog"

	"github.com/talgya/cigol/internal/lattice"
)

// EventKind names a structured engine event.
type EventKind string

const (
	EventLatticeBuilt      EventKind = "lattice_built"
	EventNodeMatched       EventKind = "node_matched"
	EventSlotResolved      EventKind = "slot_resolved"
	EventCollapseCompleted EventKind = "collapse_completed"
	EventPinchCompleted    EventKind = "pinch_completed"
	EventBridgeTriggered   EventKind = "bridge_triggered"
	EventRelicIngested     EventKind = "relic_ingested"
	EventStateTransferred  EventKind = "state_transferred"
	EventPulse             EventKind = "pulse"
	EventAccessChecked     EventKind = "access_checked"
	EventDeadMan           EventKind = "dead_man"
)

// Event is emitted by the engine (and its callers) after each operation.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind   EventKind     `json:"kind"`
	Index  int           `json:"index,omitempty"`
	Point  lattice.Point `json:"point"`
	Score  float64       `json:"score,omitempty"`
	Count  int           `json:"count,omitempty"`  // Input points / bytes
	Nodes  int           `json:"nodes,omitempty"`  // Lattice size
	Seed   uint32        `json:"seed,omitempty"`   // Keyed lattices only
	Detail string        `json:"detail,omitempty"` // Free-form label
}

// Observer receives engine events. Implementations must be safe for
// concurrent use when the engine is shared.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// Observers fans an event out to each member in order.
type Observers []Observer

// Observe forwards e to every non-nil observer.
func (obs Observers) Observe(e Event) {
	for _, o := range obs {
		if o != nil {
			o.Observe(e)
		}
	}
}

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

// LogObserver writes events to a slog logger. Node matches and slot lookups
// are logged at Debug, everything else at Info.
type LogObserver struct {
	Logger *slog.Logger
}

// Observe logs e.
func (l LogObserver) Observe(e Event) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	level := slog.LevelInfo
	if e.Kind == EventNodeMatched || e.Kind == EventSlotResolved || e.Kind == EventPulse {
		level = slog.LevelDebug
	}

	attrs := []slog.Attr{slog.String("kind", string(e.Kind))}
	switch e.Kind {
	case EventLatticeBuilt:
		attrs = append(attrs, slog.Int("nodes", e.Nodes))
		if e.Seed != 0 {
			attrs = append(attrs, slog.Any("seed", e.Seed))
		}
	case EventNodeMatched, EventSlotResolved:
		attrs = append(attrs,
			slog.Int("index", e.Index),
			slog.String("point", e.Point.String()),
			slog.Float64("score", e.Score),
		)
	case EventCollapseCompleted, EventPinchCompleted:
		attrs = append(attrs, slog.Int("points", e.Count), slog.Int("nodes", e.Nodes))
	case EventRelicIngested, EventPulse:
		attrs = append(attrs, slog.Int("index", e.Index), slog.Float64("score", e.Score))
	case EventStateTransferred, EventDeadMan:
		attrs = append(attrs, slog.Int("count", e.Count))
	}
	if e.Detail != "" {
		attrs = append(attrs, slog.String("detail", e.Detail))
	}

	logger.LogAttrs(context.Background(), level, "resonance event", attrs...)
}
