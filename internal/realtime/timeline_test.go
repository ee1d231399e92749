package realtime

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timeline", func() {
	var (
		tl   *Timeline
		base time.Time
	)

	BeforeEach(func() {
		tl = NewTimeline()
		base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	})

	It("keys entries by ID so re-adding never duplicates", func() {
		tl.Upsert(TimelineEntry{ID: 1, CreatedAt: base})
		tl.Upsert(TimelineEntry{ID: 1, CreatedAt: base})
		tl.Upsert(TimelineEntry{ID: 2, CreatedAt: base.Add(time.Minute)})

		Expect(tl.Len()).To(Equal(2))
	})

	It("lets the newest version of an entry win", func() {
		tl.Upsert(TimelineEntry{ID: 1, CreatedAt: base})
		tl.Upsert(TimelineEntry{ID: 1, CreatedAt: base.Add(time.Hour)})

		entries := tl.Entries()
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].CreatedAt).To(Equal(base.Add(time.Hour)))
	})

	It("orders entries newest-first with ID as tiebreak", func() {
		tl.Upsert(TimelineEntry{ID: 1, CreatedAt: base})
		tl.Upsert(TimelineEntry{ID: 3, CreatedAt: base.Add(2 * time.Minute)})
		tl.Upsert(TimelineEntry{ID: 2, CreatedAt: base.Add(2 * time.Minute)})

		entries := tl.Entries()
		Expect(entries).To(HaveLen(3))
		Expect(entries[0].ID).To(Equal(int64(3)))
		Expect(entries[1].ID).To(Equal(int64(2)))
		Expect(entries[2].ID).To(Equal(int64(1)))
	})

	It("removes entries by ID", func() {
		tl.Upsert(TimelineEntry{ID: 1, CreatedAt: base})
		tl.Remove(1)

		Expect(tl.Len()).To(BeZero())
	})

	Describe("Before", func() {
		It("returns entries strictly older than the cursor", func() {
			for i := int64(1); i <= 5; i++ {
				tl.Upsert(TimelineEntry{ID: i, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
			}

			page := tl.Before(base.Add(4*time.Minute), 2)
			Expect(page).To(HaveLen(2))
			Expect(page[0].ID).To(Equal(int64(3)))
			Expect(page[1].ID).To(Equal(int64(2)))
		})
	})
})
