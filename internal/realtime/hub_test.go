package realtime

import (
	"context"
	"encoding/json"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newTestClient(hub *Hub, userID int64) *Client {
	return &Client{
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, 8),
		done:   make(chan struct{}),
	}
}

var _ = Describe("Hub", func() {
	var (
		hub *Hub
		ctx context.Context
	)

	BeforeEach(func() {
		hub = NewHub()
		ctx = context.Background()
	})

	Describe("Subscribe", func() {
		It("tracks clients per channel", func() {
			c := newTestClient(hub, 1)
			hub.Subscribe("messages:insert:conversation_id=1", c)

			Expect(hub.SubscriberCount("messages:insert:conversation_id=1")).To(Equal(1))
			Expect(hub.SubscriberCount("messages:insert:conversation_id=2")).To(BeZero())
		})
	})

	Describe("Broadcast", func() {
		It("delivers the event to every subscriber of the channel", func() {
			a := newTestClient(hub, 1)
			b := newTestClient(hub, 2)
			other := newTestClient(hub, 3)

			hub.Subscribe("messages:insert:conversation_id=9", a)
			hub.Subscribe("messages:insert:conversation_id=9", b)
			hub.Subscribe("messages:insert:conversation_id=10", other)

			event, err := NewEvent("messages:insert:conversation_id=9", map[string]any{"body": "hi"})
			Expect(err).NotTo(HaveOccurred())

			hub.Broadcast(ctx, event)

			for _, c := range []*Client{a, b} {
				var got Event
				Expect(json.Unmarshal(<-c.send, &got)).To(Succeed())
				Expect(got.Channel).To(Equal("messages:insert:conversation_id=9"))
			}
			Expect(other.send).To(BeEmpty())
		})
	})

	Describe("Broadcast racing Close", func() {
		It("survives clients disconnecting mid-fanout", func() {
			const channel = "posts:insert:author_id=1"

			clients := make([]*Client, 200)
			for i := range clients {
				clients[i] = newTestClient(hub, int64(i+1))
				hub.Subscribe(channel, clients[i])
			}

			event, err := NewEvent(channel, map[string]any{"body": "hi"})
			Expect(err).NotTo(HaveOccurred())

			stop := make(chan struct{})
			var wg sync.WaitGroup
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for {
						select {
						case <-stop:
							return
						default:
							hub.Broadcast(ctx, event)
						}
					}
				}()
			}

			// Closing while broadcasters are mid-fanout must never
			// panic; the write pump owns connection teardown and the
			// send channel stays open.
			for _, c := range clients {
				c.Close()
			}
			close(stop)
			wg.Wait()

			Expect(hub.SubscriberCount(channel)).To(BeZero())
		})
	})

	Describe("Unsubscribe", func() {
		It("stops delivery for that channel only", func() {
			c := newTestClient(hub, 1)
			hub.Subscribe("posts:insert:author_id=1", c)
			hub.Subscribe("posts:insert:author_id=2", c)

			hub.Unsubscribe("posts:insert:author_id=1", c)

			Expect(hub.SubscriberCount("posts:insert:author_id=1")).To(BeZero())
			Expect(hub.SubscriberCount("posts:insert:author_id=2")).To(Equal(1))
		})
	})

	Describe("Detach", func() {
		It("removes the client from every channel", func() {
			c := newTestClient(hub, 1)
			hub.Subscribe("posts:insert:author_id=1", c)
			hub.Subscribe("notifications:insert:user_id=1", c)

			hub.Detach(c)

			Expect(hub.SubscriberCount("posts:insert:author_id=1")).To(BeZero())
			Expect(hub.SubscriberCount("notifications:insert:user_id=1")).To(BeZero())
		})
	})
})
