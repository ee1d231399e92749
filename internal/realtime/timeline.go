package realtime

import (
	"sort"
	"time"
)

// TimelineEntry is the minimal shape the timeline needs to order and
// dedup feed items.
type TimelineEntry struct {
	ID        int64
	CreatedAt time.Time
}

// Timeline is an id-keyed merge buffer for feed items. Pagination and
// live inserts can both land the same post; keying by ID makes the
// merge idempotent, and the newest version of an entry wins.
type Timeline struct {
	entries map[int64]TimelineEntry
}

func NewTimeline() *Timeline {
	return &Timeline{entries: make(map[int64]TimelineEntry)}
}

// Upsert adds or replaces an entry. Re-adding an existing ID never
// produces a duplicate.
func (t *Timeline) Upsert(entry TimelineEntry) {
	t.entries[entry.ID] = entry
}

func (t *Timeline) Remove(id int64) {
	delete(t.entries, id)
}

func (t *Timeline) Len() int {
	return len(t.entries)
}

// Entries returns the merged timeline newest-first. Ties on timestamp
// fall back to descending ID so the order is stable.
func (t *Timeline) Entries() []TimelineEntry {
	out := make([]TimelineEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Before returns up to limit entries strictly older than the cursor.
func (t *Timeline) Before(cursor time.Time, limit int) []TimelineEntry {
	all := t.Entries()
	out := make([]TimelineEntry, 0, limit)
	for _, e := range all {
		if !e.CreatedAt.Before(cursor) {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}
