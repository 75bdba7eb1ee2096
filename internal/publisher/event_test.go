package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecontent/internal/domain"
)

func TestNewContentEvent(t *testing.T) {
	modified := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	ev := NewContentEvent(domain.ContentChange{
		Action:     domain.ChangeUpdate,
		Source:     "static",
		Slug:       "map-pack",
		ModifiedAt: modified,
	}, "/blog/", now)

	assert.Equal(t, "/blog/map-pack", ev.Path)
	assert.Equal(t, time.UTC, ev.Timestamp.Location())

	body, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"action": "update",
		"source": "static",
		"slug": "map-pack",
		"path": "/blog/map-pack",
		"modifiedAt": "2024-03-03T09:00:00Z",
		"timestamp": "2024-03-04T09:00:00Z"
	}`, string(body))
}

func TestNewContentEvent_NoPrefix(t *testing.T) {
	ev := NewContentEvent(domain.ContentChange{Action: domain.ChangeDelete, Slug: "gone"}, "", time.Now())
	assert.Equal(t, "/gone", ev.Path)
}
