package sync_test

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	gosync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncline/catalog-sync-server/internal/sync"
)

var entryPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z `)

func TestProgressLogEntriesAreTimestampedAndOrdered(t *testing.T) {
	t.Parallel()

	log := sync.NewProgressLog()
	log.Appendf("first")
	log.Appendf("second %d", 2)
	log.Appendf("third")

	entries := log.Entries()
	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Regexp(t, entryPattern, entry)
	}
	assert.True(t, strings.HasSuffix(entries[0], " first"))
	assert.True(t, strings.HasSuffix(entries[1], " second 2"))
	assert.True(t, strings.HasSuffix(entries[2], " third"))
}

func TestProgressLogEntriesReturnsCopy(t *testing.T) {
	t.Parallel()

	log := sync.NewProgressLog()
	log.Appendf("only")

	entries := log.Entries()
	entries[0] = "mutated"

	assert.True(t, strings.HasSuffix(log.Entries()[0], " only"))
}

func TestProgressLogConcurrentAppend(t *testing.T) {
	t.Parallel()

	log := sync.NewProgressLog()
	var wg gosync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Appendf("entry %d", i)
		}()
	}
	wg.Wait()

	assert.Len(t, log.Entries(), 50)
}

func TestSummaryJSONShape(t *testing.T) {
	t.Parallel()

	result := sync.RunResult{
		Success: true,
		Logs:    []string{"one"},
		Summary: sync.Summary{Total: 7, Created: 4, Updated: 2, Failed: 1, Published: 3},
	}

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, true, decoded["success"])

	summary, ok := decoded["summary"].(map[string]any)
	require.True(t, ok)
	for field, want := range map[string]float64{
		"total": 7, "created": 4, "updated": 2, "failed": 1, "published": 3,
	} {
		assert.Equal(t, want, summary[field], fmt.Sprintf("field %q", field))
	}
}
