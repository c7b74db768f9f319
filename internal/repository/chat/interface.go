package chat

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/domain"
)

// ChatRepository handles chat document operations. Messages live embedded in
// the chat document and are append-only.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.Chat, error)
	FindByUserID(ctx context.Context, userID bson.ObjectID) ([]domain.Chat, error)
	AppendMessage(ctx context.Context, chatID bson.ObjectID, msg domain.Message) error
	UpdateTitle(ctx context.Context, chatID bson.ObjectID, title string) error
}
