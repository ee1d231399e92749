package calls_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"loopline.app/server/internal/calls"
	"loopline.app/server/internal/model"
)

var _ = Describe("Ringer", func() {
	var r *calls.Ringer

	offer := func(signalID, callerID int64) calls.PendingCall {
		return calls.PendingCall{
			SignalID:       signalID,
			CallerID:       callerID,
			CalleeID:       100,
			ConversationID: 500,
			CallType:       model.CallTypeAudio,
			ReceivedAt:     time.Now(),
		}
	}

	BeforeEach(func() {
		r = calls.NewRinger()
	})

	It("starts idle with no pending call", func() {
		Expect(r.State()).To(Equal(calls.StateIdle))
		Expect(r.Pending()).To(BeNil())
	})

	Describe("Ring", func() {
		It("moves to ringing and exposes the pending call", func() {
			Expect(r.Ring(offer(1, 10))).To(BeTrue())

			Expect(r.State()).To(Equal(calls.StateRinging))
			pending := r.Pending()
			Expect(pending).NotTo(BeNil())
			Expect(pending.CallerID).To(Equal(int64(10)))
		})

		It("replaces the pending call when a second offer arrives", func() {
			r.Ring(offer(1, 10))
			r.Ring(offer(2, 20))

			pending := r.Pending()
			Expect(pending.SignalID).To(Equal(int64(2)))
			Expect(pending.CallerID).To(Equal(int64(20)))
			Expect(r.State()).To(Equal(calls.StateRinging))
		})
	})

	Describe("Accept", func() {
		It("returns the pending call and goes idle", func() {
			r.Ring(offer(1, 10))

			pending, ok := r.Accept()
			Expect(ok).To(BeTrue())
			Expect(pending.CallerID).To(Equal(int64(10)))
			Expect(r.State()).To(Equal(calls.StateIdle))
			Expect(r.Pending()).To(BeNil())
		})

		It("fails while idle", func() {
			_, ok := r.Accept()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Reject", func() {
		It("returns the pending call and goes idle", func() {
			r.Ring(offer(1, 10))

			pending, ok := r.Reject()
			Expect(ok).To(BeTrue())
			Expect(pending.CallerID).To(Equal(int64(10)))
			Expect(r.State()).To(Equal(calls.StateIdle))
		})

		It("fails twice in a row", func() {
			r.Ring(offer(1, 10))

			_, ok := r.Reject()
			Expect(ok).To(BeTrue())
			_, ok = r.Reject()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Close", func() {
		It("blocks every later transition", func() {
			r.Ring(offer(1, 10))
			r.Close()

			Expect(r.Ring(offer(2, 20))).To(BeFalse())
			_, ok := r.Accept()
			Expect(ok).To(BeFalse())
			_, ok = r.Reject()
			Expect(ok).To(BeFalse())
			Expect(r.Pending()).To(BeNil())
			Expect(r.Closed()).To(BeTrue())
		})
	})
})

var _ = Describe("RejectSignal", func() {
	It("swaps caller and callee and carries the declined reason", func() {
		pending := &calls.PendingCall{
			SignalID:       1,
			CallerID:       10,
			CalleeID:       100,
			ConversationID: 500,
		}

		sig := calls.RejectSignal(pending)
		Expect(sig.CallerID).To(Equal(int64(100)))
		Expect(sig.CalleeID).To(Equal(int64(10)))
		Expect(sig.ConversationID).To(Equal(int64(500)))
		Expect(sig.SignalType).To(Equal(model.SignalReject))
		Expect(string(sig.SignalData)).To(MatchJSON(`{"reason":"declined"}`))
	})
})
