// File: internal/domain/chat.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PlaceholderTitle is the title every chat starts with until the title
// service produces a real one (or the user overwrites it).
const PlaceholderTitle = "New Chat"

// Chat represents a single conversation thread, persisted as one document
// with its messages embedded in arrival order.
type Chat struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"user_id" json:"user"`
	Title     string        `bson:"title" json:"title"`
	Messages  []Message     `bson:"messages" json:"messages"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// HasGeneratedTitle reports whether the chat's title has moved past the
// placeholder state.
func (c *Chat) HasGeneratedTitle() bool {
	return c.Title != "" && c.Title != PlaceholderTitle && c.Title != "Loading..."
}

// FirstUserMessage returns the earliest message sent by the user, or nil.
func (c *Chat) FirstUserMessage() *Message {
	for i := range c.Messages {
		if c.Messages[i].Sender == SenderUser {
			return &c.Messages[i]
		}
	}
	return nil
}

// CountUserMessages counts transcript entries written by the user.
func (c *Chat) CountUserMessages() int {
	n := 0
	for i := range c.Messages {
		if c.Messages[i].Sender == SenderUser {
			n++
		}
	}
	return n
}
