package calls_test

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"loopline.app/server/common/id"
	"loopline.app/server/internal/calls"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/realtime"
)

var _ = Describe("CallService", func() {
	var (
		svc       calls.Service
		signals   *mockCallSignalStore
		convs     *mockConversationStore
		users     *mockUserStore
		publisher *mockPublisher
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		signals = &mockCallSignalStore{}
		convs = &mockConversationStore{}
		users = &mockUserStore{}
		publisher = &mockPublisher{}

		Expect(id.Init(1)).To(Succeed())
		svc = calls.NewService(signals, convs, users, publisher)
	})

	// ringLastPublished replays the most recently published signal the way
	// the bridge does, so the callee's local ringer sees it.
	ringLastPublished := func() {
		Expect(publisher.events).NotTo(BeEmpty())
		last := publisher.events[len(publisher.events)-1]
		event, err := realtime.NewEvent(last.channel, last.payload)
		Expect(err).NotTo(HaveOccurred())
		calls.NewSignalHook(svc)(ctx, event)
	}

	Describe("PlaceCall", func() {
		It("writes an offer row and publishes to the callee channel", func() {
			sig, err := svc.PlaceCall(ctx, 10, 20, 500, model.CallTypeVideo, json.RawMessage(`{"type":"offer"}`))

			Expect(err).NotTo(HaveOccurred())
			Expect(sig.SignalType).To(Equal(model.SignalOffer))
			Expect(sig.CallerID).To(Equal(int64(10)))
			Expect(sig.CalleeID).To(Equal(int64(20)))

			Expect(signals.created).To(HaveLen(1))
			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].channel).To(Equal("call_signals:insert:callee_id=20"))
		})

		It("rings an attached ringer when the offer arrives over the bridge", func() {
			r := svc.AttachRinger(20)

			_, err := svc.PlaceCall(ctx, 10, 20, 500, model.CallTypeAudio, nil)
			Expect(err).NotTo(HaveOccurred())
			// The write path never rings directly; the bridge does.
			Expect(r.State()).To(Equal(calls.StateIdle))

			ringLastPublished()

			Expect(r.State()).To(Equal(calls.StateRinging))
			pending := r.Pending()
			Expect(pending.CallerID).To(Equal(int64(10)))
			Expect(pending.CallType).To(Equal(model.CallTypeAudio))
			Expect(pending.CallerName).To(Equal("Ada Lovelace"))
		})

		It("rings even when the caller profile cannot be resolved", func() {
			users.getByIDFn = func(context.Context, int64) (*model.User, error) {
				return nil, errors.New("user store down")
			}
			r := svc.AttachRinger(20)

			_, err := svc.PlaceCall(ctx, 10, 20, 500, model.CallTypeVideo, nil)
			Expect(err).NotTo(HaveOccurred())
			ringLastPublished()

			Expect(r.State()).To(Equal(calls.StateRinging))
			Expect(r.Pending().CallerName).To(BeEmpty())
		})

		It("lets a second caller replace the first without a rejection row", func() {
			r := svc.AttachRinger(20)

			_, err := svc.PlaceCall(ctx, 10, 20, 500, model.CallTypeAudio, nil)
			Expect(err).NotTo(HaveOccurred())
			ringLastPublished()
			_, err = svc.PlaceCall(ctx, 11, 20, 501, model.CallTypeAudio, nil)
			Expect(err).NotTo(HaveOccurred())
			ringLastPublished()

			Expect(r.Pending().CallerID).To(Equal(int64(11)))
			// Two offers, zero rejects.
			Expect(signals.created).To(HaveLen(2))
			for _, sig := range signals.created {
				Expect(sig.SignalType).To(Equal(model.SignalOffer))
			}
		})

		It("rejects calling yourself", func() {
			_, err := svc.PlaceCall(ctx, 10, 10, 500, model.CallTypeAudio, nil)
			Expect(err).To(MatchError(calls.ErrSelfCall))
		})

		It("rejects callers outside the conversation", func() {
			convs.isParticipantFn = func(_ context.Context, _, userID int64) (bool, error) {
				return userID != 10, nil
			}

			_, err := svc.PlaceCall(ctx, 10, 20, 500, model.CallTypeAudio, nil)
			Expect(err).To(MatchError(calls.ErrNotParticipant))
			Expect(signals.created).To(BeEmpty())
		})

		It("rejects unknown call types", func() {
			_, err := svc.PlaceCall(ctx, 10, 20, 500, "hologram", nil)
			Expect(err).To(MatchError(calls.ErrBadSignalType))
		})
	})

	Describe("SendSignal", func() {
		It("accepts answer and ice signals", func() {
			for _, st := range []model.SignalType{model.SignalAnswer, model.SignalICE} {
				_, err := svc.SendSignal(ctx, 20, 10, 500, st, json.RawMessage(`{}`))
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(signals.created).To(HaveLen(2))
		})

		It("refuses offer and reject types", func() {
			for _, st := range []model.SignalType{model.SignalOffer, model.SignalReject} {
				_, err := svc.SendSignal(ctx, 20, 10, 500, st, nil)
				Expect(err).To(MatchError(calls.ErrBadSignalType))
			}
		})
	})

	Describe("RingLocal", func() {
		It("ignores non-offer signals", func() {
			r := svc.AttachRinger(10)

			_, err := svc.SendSignal(ctx, 20, 10, 500, model.SignalAnswer, json.RawMessage(`{}`))
			Expect(err).NotTo(HaveOccurred())
			ringLastPublished()

			Expect(r.State()).To(Equal(calls.StateIdle))
		})
	})

	Describe("Pending", func() {
		It("reports the ringing offer and nil otherwise", func() {
			Expect(svc.Pending(20)).To(BeNil())

			svc.AttachRinger(20)
			Expect(svc.Pending(20)).To(BeNil())

			_, err := svc.PlaceCall(ctx, 10, 20, 500, model.CallTypeVideo, nil)
			Expect(err).NotTo(HaveOccurred())
			ringLastPublished()

			pending := svc.Pending(20)
			Expect(pending).NotTo(BeNil())
			Expect(pending.CallerID).To(Equal(int64(10)))
			Expect(pending.CallerName).To(Equal("Ada Lovelace"))
		})
	})

	Describe("Accept", func() {
		It("clears the ringer without writing any row", func() {
			r := svc.AttachRinger(20)
			_, err := svc.PlaceCall(ctx, 10, 20, 500, model.CallTypeAudio, nil)
			Expect(err).NotTo(HaveOccurred())
			ringLastPublished()
			rowsBefore := len(signals.created)

			Expect(svc.Accept(ctx, 20)).To(Succeed())

			Expect(r.State()).To(Equal(calls.StateIdle))
			Expect(signals.created).To(HaveLen(rowsBefore))
		})

		It("fails when nothing is ringing", func() {
			svc.AttachRinger(20)
			Expect(svc.Accept(ctx, 20)).To(MatchError(calls.ErrNotRinging))
		})

		It("fails for users with no ringer attached", func() {
			Expect(svc.Accept(ctx, 99)).To(MatchError(calls.ErrNotRinging))
		})
	})

	Describe("Reject", func() {
		It("writes exactly one swapped reject row", func() {
			svc.AttachRinger(20)
			_, err := svc.PlaceCall(ctx, 10, 20, 500, model.CallTypeAudio, nil)
			Expect(err).NotTo(HaveOccurred())
			ringLastPublished()
			rowsBefore := len(signals.created)

			Expect(svc.Reject(ctx, 20)).To(Succeed())

			Expect(signals.created).To(HaveLen(rowsBefore + 1))
			reject := signals.created[len(signals.created)-1]
			Expect(reject.SignalType).To(Equal(model.SignalReject))
			Expect(reject.CallerID).To(Equal(int64(20)))
			Expect(reject.CalleeID).To(Equal(int64(10)))
			Expect(string(reject.SignalData)).To(MatchJSON(`{"reason":"declined"}`))

			// The reject is addressed back to the original caller.
			last := publisher.events[len(publisher.events)-1]
			Expect(last.channel).To(Equal("call_signals:insert:callee_id=10"))
		})

		It("is a no-op error after the ringer is detached", func() {
			svc.AttachRinger(20)
			_, err := svc.PlaceCall(ctx, 10, 20, 500, model.CallTypeAudio, nil)
			Expect(err).NotTo(HaveOccurred())
			ringLastPublished()

			svc.DetachRinger(20)
			Expect(svc.Reject(ctx, 20)).To(MatchError(calls.ErrNotRinging))
		})

		It("propagates store failures", func() {
			svc.AttachRinger(20)
			_, err := svc.PlaceCall(ctx, 10, 20, 500, model.CallTypeAudio, nil)
			Expect(err).NotTo(HaveOccurred())
			ringLastPublished()

			signals.createFn = func(_ context.Context, _ *model.CallSignal) error {
				return errors.New("database connection failed")
			}
			err = svc.Reject(ctx, 20)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("database connection failed"))
		})
	})
})
