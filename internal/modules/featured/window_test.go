package featured

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/athar-archive/core/internal/models"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	assert.Equal(t, StateScheduled, Classify(after, nil, now))
	assert.Equal(t, StateActive, Classify(before, nil, now))
	assert.Equal(t, StateActive, Classify(before, &after, now))
	assert.Equal(t, StateExpired, Classify(before, &before, now))

	// Half-open window: the boundaries themselves.
	assert.Equal(t, StateActive, Classify(now, nil, now))
	assert.Equal(t, StateExpired, Classify(before, &now, now))
}

func TestActiveSetPreservesOrder(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	picks := []models.EditorsPickModel{
		{BlogPostID: "a", ScheduledStart: before},
		{BlogPostID: "b", ScheduledStart: after},
		{BlogPostID: "c", ScheduledStart: before, ScheduledEnd: &before},
		{BlogPostID: "d", ScheduledStart: before, ScheduledEnd: &after},
	}

	active := ActiveSet(picks, now)
	ids := make([]string, 0, len(active))
	for _, p := range active {
		ids = append(ids, p.BlogPostID)
	}
	assert.Equal(t, []string{"a", "d"}, ids)
}

func TestActiveSetEmpty(t *testing.T) {
	assert.Empty(t, ActiveSet(nil, time.Now()))
}
