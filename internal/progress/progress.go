// package progress carries status events from a delegated engine back to
// the orchestrator over a one-directional channel. The channel closing is
// the sole termination signal; there is no explicit done event.
package progress

import "time"

// Status classifies one unit of delegated work.
type Status int

const (
	StatusOk Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event describes one processed file.
type Event struct {
	Path    string
	Status  Status
	Message string
}

// Summary aggregates a drained event stream.
type Summary struct {
	Events     []Event
	Ok         int
	Skipped    int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Elapsed returns the wall-clock duration of the drain loop.
func (s Summary) Elapsed() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Monitor drains a progress channel without generating back-pressure on
// the producer. Timeout policy lives above this type: if the producer
// never closes the channel, Drain blocks.
type Monitor struct {
	// OnEvent, when set, is invoked for every event in arrival order.
	OnEvent func(Event)
}

// Drain receives every event until the channel is closed and returns the
// aggregate summary. It makes no assumption about the number of events.
func (m *Monitor) Drain(events <-chan Event) Summary {
	summary := Summary{StartedAt: time.Now()}
	for event := range events {
		summary.Events = append(summary.Events, event)
		switch event.Status {
		case StatusOk:
			summary.Ok++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
		}
		if m.OnEvent != nil {
			m.OnEvent(event)
		}
	}
	summary.FinishedAt = time.Now()
	return summary
}
