package realtime

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Channel naming", func() {
	It("formats table, event and filter", func() {
		Expect(MessagesInsert(123)).To(Equal("messages:insert:conversation_id=123"))
		Expect(CallSignalsInsert(42)).To(Equal("call_signals:insert:callee_id=42"))
		Expect(NotificationsInsert(7)).To(Equal("notifications:insert:user_id=7"))
	})

	Describe("ValidChannel", func() {
		It("accepts well-formed names", func() {
			Expect(ValidChannel("messages:insert:conversation_id=123")).To(BeTrue())
			Expect(ValidChannel("posts:delete:author_id=1")).To(BeTrue())
		})

		It("rejects missing parts", func() {
			Expect(ValidChannel("messages:insert")).To(BeFalse())
			Expect(ValidChannel("messages:insert:")).To(BeFalse())
			Expect(ValidChannel(":insert:conversation_id=1")).To(BeFalse())
		})

		It("rejects unknown event types", func() {
			Expect(ValidChannel("messages:upsert:conversation_id=1")).To(BeFalse())
		})

		It("rejects filters without key=value shape", func() {
			Expect(ValidChannel("messages:insert:conversation_id")).To(BeFalse())
			Expect(ValidChannel("messages:insert:=123")).To(BeFalse())
		})
	})
})
