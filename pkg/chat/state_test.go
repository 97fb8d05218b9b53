package chat_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/docsage/docsage/pkg/chat"
)

var _ = Describe("State", func() {
	var state *chat.State

	BeforeEach(func() {
		state = chat.NewState()
	})

	Describe("Append", func() {
		It("adds turns in order", func() {
			state.Append(chat.Turn{Role: chat.RoleUser, Text: "what is a stack?"})
			state.Append(chat.Turn{Role: chat.RoleModel, Text: "a LIFO structure"})

			turns := state.Snapshot()
			Expect(turns).To(HaveLen(2))
			Expect(turns[0].Role).To(Equal(chat.RoleUser))
			Expect(turns[0].Text).To(Equal("what is a stack?"))
			Expect(turns[1].Role).To(Equal(chat.RoleModel))
		})

		It("grows Len by one per turn", func() {
			Expect(state.Len()).To(Equal(0))
			state.Append(chat.Turn{Role: chat.RoleUser, Text: "hi"})
			Expect(state.Len()).To(Equal(1))
		})
	})

	Describe("Snapshot", func() {
		It("returns an empty slice for a fresh state", func() {
			Expect(state.Snapshot()).To(BeEmpty())
		})

		It("is not affected by later appends", func() {
			state.Append(chat.Turn{Role: chat.RoleUser, Text: "first"})
			snap := state.Snapshot()

			state.Append(chat.Turn{Role: chat.RoleModel, Text: "second"})

			Expect(snap).To(HaveLen(1))
			Expect(snap[0].Text).To(Equal("first"))
		})

		It("is not affected by later removals", func() {
			state.Append(chat.Turn{Role: chat.RoleUser, Text: "first"})
			snap := state.Snapshot()

			_, err := state.RemoveLast()
			Expect(err).NotTo(HaveOccurred())

			Expect(snap).To(HaveLen(1))
		})
	})

	Describe("RemoveLast", func() {
		It("removes and returns the most recent turn", func() {
			state.Append(chat.Turn{Role: chat.RoleUser, Text: "keep"})
			state.Append(chat.Turn{Role: chat.RoleUser, Text: "drop"})

			removed, err := state.RemoveLast()
			Expect(err).NotTo(HaveOccurred())
			Expect(removed.Text).To(Equal("drop"))

			turns := state.Snapshot()
			Expect(turns).To(HaveLen(1))
			Expect(turns[0].Text).To(Equal("keep"))
		})

		It("undoes exactly one append", func() {
			state.Append(chat.Turn{Role: chat.RoleUser, Text: "a"})
			before := state.Snapshot()

			state.Append(chat.Turn{Role: chat.RoleUser, Text: "transient"})
			_, err := state.RemoveLast()
			Expect(err).NotTo(HaveOccurred())

			Expect(state.Snapshot()).To(Equal(before))
		})

		It("fails with ErrEmptyState on an empty state", func() {
			_, err := state.RemoveLast()
			Expect(err).To(MatchError(chat.ErrEmptyState))
		})
	})
})
