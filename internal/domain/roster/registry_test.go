package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSightings(t *testing.T) {
	t.Parallel()

	first := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(7 * 24 * time.Hour)

	existing := []KnownPlayer{
		{ExternalID: "1", Name: "Josh Allen", Position: "QB", Team: "BUF", LastSeen: first},
	}
	incoming := []KnownPlayer{
		{ExternalID: "1", Name: "Joshua Allen", Position: "QB", Team: "BUF", LastSeen: second},
		{ExternalID: "2", Name: "James Cook", Position: "RB", Team: "BUF", LastSeen: second},
	}

	merged, result := MergeSightings(existing, incoming)
	require.Len(t, merged, 2)
	assert.Equal(t, UpsertResult{Inserted: 1, Refreshed: 1}, result)

	assert.Equal(t, "Josh Allen", merged[0].Name, "existing entries keep their identity fields")
	assert.Equal(t, second, merged[0].LastSeen)
	assert.Equal(t, "James Cook", merged[1].Name)
	assert.Equal(t, first, existing[0].LastSeen, "input must not be mutated")
}

func TestMergeSightings_SameSnapshotTwice(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	snapshot := []KnownPlayer{
		{ExternalID: "1", Name: "A", LastSeen: at},
		{ExternalID: "2", Name: "B", LastSeen: at},
	}

	once, _ := MergeSightings(nil, snapshot)
	later := []KnownPlayer{
		{ExternalID: "1", Name: "A", LastSeen: at.Add(time.Hour)},
		{ExternalID: "2", Name: "B", LastSeen: at.Add(time.Hour)},
	}
	twice, result := MergeSightings(once, later)

	assert.Len(t, twice, 2)
	assert.Equal(t, UpsertResult{Refreshed: 2}, result)
	assert.Equal(t, at.Add(time.Hour), twice[1].LastSeen)
}
