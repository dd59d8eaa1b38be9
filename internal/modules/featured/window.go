package featured

import (
	"time"

	"github.com/athar-archive/core/internal/models"
)

type State string

const (
	StateActive    State = "active"
	StateScheduled State = "scheduled"
	StateExpired   State = "expired"
)

// Classify derives the display state of a window at the given instant.
// Nothing is stored: the state is recomputed on every read, so clock
// progression alone moves a pick through scheduled, active, expired.
func Classify(start time.Time, end *time.Time, now time.Time) State {
	if now.Before(start) {
		return StateScheduled
	}
	if end != nil && !now.Before(*end) {
		return StateExpired
	}
	return StateActive
}

// ActiveSet filters picks whose window contains now, preserving input
// order. The half-open interval means a pick whose end equals now is
// already expired.
func ActiveSet(picks []models.EditorsPickModel, now time.Time) []models.EditorsPickModel {
	out := make([]models.EditorsPickModel, 0, len(picks))
	for _, p := range picks {
		if Classify(p.ScheduledStart, p.ScheduledEnd, now) == StateActive {
			out = append(out, p)
		}
	}
	return out
}
