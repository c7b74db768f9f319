package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/voxai/voxai-sql/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

type mongoChatRepository struct {
	collection *mongo.Collection
}

func NewChatRepository(db *mongo.Database) ChatRepository {
	return &mongoChatRepository{collection: db.Collection("chats")}
}

func (r *mongoChatRepository) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	if chat.UserID.IsZero() {
		return nil, errors.New("invalid user ID")
	}
	if chat.Title == "" {
		chat.Title = domain.PlaceholderTitle
	}
	if chat.Messages == nil {
		chat.Messages = []domain.Message{}
	}

	now := time.Now().UTC()
	chat.ID = bson.NewObjectID()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, chat); err != nil {
		return nil, fmt.Errorf("database error creating chat: %w", err)
	}
	return chat, nil
}

func (r *mongoChatRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error fetching chat: %w", err)
	}
	return &chat, nil
}

func (r *mongoChatRepository) FindByUserID(ctx context.Context, userID bson.ObjectID) ([]domain.Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("database error fetching chats: %w", err)
	}
	defer cursor.Close(ctx)

	chats := []domain.Chat{}
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("database error decoding chats: %w", err)
	}
	return chats, nil
}

// AppendMessage pushes one message onto the chat's embedded transcript.
// Appends are the only mutation the transcript ever sees.
func (r *mongoChatRepository) AppendMessage(ctx context.Context, chatID bson.ObjectID, msg domain.Message) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{
			"$push": bson.M{"messages": msg},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return fmt.Errorf("database error appending message: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *mongoChatRepository) UpdateTitle(ctx context.Context, chatID bson.ObjectID, title string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{"$set": bson.M{"title": title, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("database error updating chat title: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}
