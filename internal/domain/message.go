// File: internal/domain/message.go
package domain

import "time"

// Message senders. Every transcript entry is written either by the end user
// or by the system on their behalf.
const (
	SenderUser   = "user"
	SenderSystem = "system"
)

// Message is a single transcript entry within a chat. Messages are embedded
// in their parent chat document and are immutable once appended.
type Message struct {
	Text          string           `bson:"text" json:"text"`
	Sender        string           `bson:"sender" json:"sender"`
	IsQueryResult bool             `bson:"is_query_result,omitempty" json:"isQueryResult,omitempty"`
	QueryResults  []map[string]any `bson:"query_results,omitempty" json:"queryResults,omitempty"`
	IsAIResponse  bool             `bson:"is_ai_response,omitempty" json:"isAIResponse,omitempty"`
	AIModel       string           `bson:"ai_model,omitempty" json:"aiModel,omitempty"`
	AICategory    string           `bson:"ai_category,omitempty" json:"aiCategory,omitempty"`
	IsError       bool             `bson:"is_error,omitempty" json:"isError,omitempty"`
	CreatedAt     time.Time        `bson:"created_at" json:"createdAt"`
}

// NewUserMessage builds a transcript entry for text typed by the user.
func NewUserMessage(text string) Message {
	return Message{Text: text, Sender: SenderUser, CreatedAt: time.Now().UTC()}
}

// NewSystemMessage builds a plain system transcript entry.
func NewSystemMessage(text string) Message {
	return Message{Text: text, Sender: SenderSystem, CreatedAt: time.Now().UTC()}
}
