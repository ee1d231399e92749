package service

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("session token generation", func() {
	It("issues distinct high-entropy hex credentials", func() {
		seen := make(map[string]bool)
		for range 16 {
			token, err := newSessionToken()
			Expect(err).NotTo(HaveOccurred())
			Expect(token).To(HaveLen(2 * sessionTokenSize))
			Expect(token).To(MatchRegexp(`^[0-9a-f]+$`))
			Expect(seen[token]).To(BeFalse())
			seen[token] = true
		}
	})
})
