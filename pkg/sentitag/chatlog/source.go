package chatlog

import "context"

// Message is one chat message as seen by a Source.
type Message struct {
	Index int     `json:"index"`
	Role  string  `json:"role"`
	Text  *string `json:"text"` // nil when the transcript carried no text
}

// Source yields the most recent bot message of a conversation.
type Source interface {
	// Latest returns the message with the greatest index. ok is false when
	// the conversation has no usable message yet.
	Latest(ctx context.Context) (msg Message, ok bool, err error)
}

// TextOrEmpty returns the message text, or "" when absent.
func (m Message) TextOrEmpty() string {
	if m.Text == nil {
		return ""
	}
	return *m.Text
}
