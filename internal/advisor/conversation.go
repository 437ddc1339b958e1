package advisor

import "sync"

// Conversation is a role-tagged chat history shared by concurrent callers.
// Each Begin issues a ticket; only the reply for the newest ticket is
// recorded. Replies to superseded requests are dropped.
type Conversation struct {
	mu      sync.Mutex
	history []Message
	issued  uint64
}

// Begin appends the user's message and returns the ticket for this request
// together with the history to send.
func (c *Conversation) Begin(text string) (uint64, []Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, Message{Role: RoleUser, Text: text})
	c.issued++
	return c.issued, c.snapshot()
}

// Finish records the model reply for ticket. It reports false, leaving the
// history unchanged, when a newer request was started in the meantime.
func (c *Conversation) Finish(ticket uint64, reply string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket != c.issued {
		return false
	}
	c.history = append(c.history, Message{Role: RoleModel, Text: reply})
	return true
}

// Current reports whether ticket belongs to the newest request.
func (c *Conversation) Current(ticket uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ticket == c.issued
}

// History returns a copy of the conversation so far.
func (c *Conversation) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot()
}

// Reset clears the history. Requests still in flight become stale.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = nil
	c.issued++
}

func (c *Conversation) snapshot() []Message {
	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}
