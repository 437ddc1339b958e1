package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation_InOrder(t *testing.T) {
	var c Conversation

	ticket, history := c.Begin("Hallo")
	assert.Equal(t, []Message{{Role: RoleUser, Text: "Hallo"}}, history)
	assert.True(t, c.Current(ticket))
	assert.True(t, c.Finish(ticket, "Hi!"))

	assert.Equal(t, []Message{
		{Role: RoleUser, Text: "Hallo"},
		{Role: RoleModel, Text: "Hi!"},
	}, c.History())
}

func TestConversation_StaleReplyDiscarded(t *testing.T) {
	var c Conversation

	first, _ := c.Begin("Frage 1")
	second, history := c.Begin("Frage 2")
	require.Len(t, history, 2)

	// The slow first reply arrives after the second request was issued.
	assert.False(t, c.Finish(first, "Antwort 1"))
	assert.True(t, c.Finish(second, "Antwort 2"))

	got := c.History()
	require.Len(t, got, 3)
	assert.Equal(t, "Antwort 2", got[2].Text)
}

func TestConversation_Reset(t *testing.T) {
	var c Conversation

	ticket, _ := c.Begin("Hallo")
	c.Reset()

	assert.False(t, c.Finish(ticket, "zu spät"))
	assert.Empty(t, c.History())
}

func TestConversation_HistoryIsCopy(t *testing.T) {
	var c Conversation
	c.Begin("a")

	h := c.History()
	h[0].Text = "b"
	assert.Equal(t, "a", c.History()[0].Text)
}
