// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/domain"
	chatrepo "github.com/voxai/voxai-sql/internal/repository/chat"
	dbrepo "github.com/voxai/voxai-sql/internal/repository/database"
	translationrepo "github.com/voxai/voxai-sql/internal/repository/translation"
	"github.com/voxai/voxai-sql/internal/services/ai"
	"github.com/voxai/voxai-sql/internal/services/assistant"
	"github.com/voxai/voxai-sql/internal/services/dbconn"
)

// contextWindowSize caps how much recent transcript the conversational
// responder sees.
const contextWindowSize = 5

// QueryExecutor runs a SQL string against a registered database's live
// connection. Implemented by DatabaseService.
type QueryExecutor interface {
	ExecuteForRecord(ctx context.Context, record *domain.Database, query string) (*dbconn.QueryResult, error)
}

// ConversationalResponder answers free text with a canned reply. Implemented
// by assistant.Responder.
type ConversationalResponder interface {
	Respond(text string, recentContext []assistant.ContextMessage) assistant.Reply
}

// IncomingMessage is a transcript entry supplied by the client at chat
// creation time.
type IncomingMessage struct {
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddMessageResult is everything one addMessage round produced.
type AddMessageResult struct {
	Chat         *domain.Chat       `json:"chat"`
	GeneratedSQL string             `json:"generatedSQL,omitempty"`
	QueryResults []map[string]any   `json:"queryResults,omitempty"`
	AIResponse   string             `json:"aiResponse,omitempty"`
	AIModel      string             `json:"aiModel,omitempty"`
	AICategory   assistant.Category `json:"aiCategory,omitempty"`
}

// ChatService orchestrates the conversational message flow: it classifies
// incoming text, routes it down the SQL or conversational path, coordinates
// the downstream services, and appends every resulting message to the chat
// transcript. Appends are individually committed steps; a failure partway
// leaves earlier messages persisted.
type ChatService struct {
	chats        chatrepo.ChatRepository
	databases    dbrepo.DatabaseRepository
	translations translationrepo.TranslationRepository
	titles       ai.TitleProvider
	translator   ai.SQLTranslator
	responder    ConversationalResponder
	executor     QueryExecutor
	logger       Logger
}

func NewChatService(
	chats chatrepo.ChatRepository,
	databases dbrepo.DatabaseRepository,
	translations translationrepo.TranslationRepository,
	titles ai.TitleProvider,
	translator ai.SQLTranslator,
	responder ConversationalResponder,
	executor QueryExecutor,
	logger Logger,
) (*ChatService, error) {
	if chats == nil || databases == nil || translations == nil {
		return nil, errors.New("chat service requires all repositories")
	}
	if titles == nil || translator == nil || responder == nil || executor == nil {
		return nil, errors.New("chat service requires all collaborators")
	}
	return &ChatService{
		chats:        chats,
		databases:    databases,
		translations: translations,
		titles:       titles,
		translator:   translator,
		responder:    responder,
		executor:     executor,
		logger:       logger,
	}, nil
}

// CreateChat creates a chat with the placeholder title, seeds it with any
// client-supplied messages, and triggers title generation when a first
// message exists. Title failures are swallowed; the placeholder stays.
func (s *ChatService) CreateChat(ctx context.Context, userID bson.ObjectID, seed []IncomingMessage) (*domain.Chat, error) {
	messages := make([]domain.Message, 0, len(seed))
	for _, m := range seed {
		sender := m.Sender
		if sender == "" {
			sender = domain.SenderUser
		}
		createdAt := m.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		messages = append(messages, domain.Message{Text: m.Text, Sender: sender, CreatedAt: createdAt})
	}

	chat, err := s.chats.Create(ctx, &domain.Chat{
		UserID:   userID,
		Title:    domain.PlaceholderTitle,
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}

	if len(messages) > 0 {
		s.generateAndStoreTitle(ctx, chat, messages[0].Text)
	}
	return chat, nil
}

// GetUserChats returns the chats owned by the user.
func (s *ChatService) GetUserChats(ctx context.Context, userID bson.ObjectID) ([]domain.Chat, error) {
	return s.chats.FindByUserID(ctx, userID)
}

// GetChatByID returns one chat, checking ownership.
func (s *ChatService) GetChatByID(ctx context.Context, userID, chatID bson.ObjectID) (*domain.Chat, error) {
	return s.loadOwnedChat(ctx, userID, chatID)
}

// AddMessage is the orchestration entry point for one incoming user message.
//
// SQL path: persist user message, resolve the connected database record and
// its schema, translate the question, persist the SQL as a system message,
// execute it on the live connection, persist a result message. Each append
// commits on its own; a failure at any later step leaves earlier appends in
// place.
//
// Conversational path: persist user message, answer from the built-in
// responder. This path never surfaces a hard failure: if the responder
// misbehaves, a fixed fallback message is appended instead.
func (s *ChatService) AddMessage(ctx context.Context, userID, chatID bson.ObjectID, text string) (*AddMessageResult, error) {
	if text == "" {
		return nil, NewValidationError("add_message", "message text is required")
	}

	chat, err := s.loadOwnedChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	firstUserMessage := chat.CountUserMessages() == 0

	userMsg := domain.NewUserMessage(text)
	if err := s.chats.AppendMessage(ctx, chat.ID, userMsg); err != nil {
		return nil, err
	}
	chat.Messages = append(chat.Messages, userMsg)

	if firstUserMessage && !chat.HasGeneratedTitle() {
		s.generateAndStoreTitle(ctx, chat, text)
	}

	if question, ok := assistant.IsSQLRequest(text); ok {
		return s.handleSQLRequest(ctx, userID, chat, question)
	}
	return s.handleConversational(ctx, chat, text)
}

func (s *ChatService) handleSQLRequest(ctx context.Context, userID bson.ObjectID, chat *domain.Chat, question string) (*AddMessageResult, error) {
	record, err := s.databases.FindConnectedByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, dbrepo.ErrNoConnectedDatabase) {
			return nil, NewNoActiveDatabaseError("add_message")
		}
		return nil, err
	}
	if record.Schema == "" {
		return nil, NewMissingSchemaError("add_message")
	}

	sqlQuery, err := s.translator.TranslateToSQL(ctx, question, record.Schema)
	if err != nil {
		return nil, NewUpstreamError("nl_to_sql", "Failed to generate SQL from the question.", err)
	}

	// Bookkeeping only; a lost record must not fail the request.
	if _, err := s.translations.Create(ctx, &domain.SQLTranslation{
		UserID:    userID,
		InputText: question,
		SQLQuery:  sqlQuery,
	}); err != nil {
		s.logger.Warn("failed to save SQL translation record", "error", err.Error())
	}

	sqlMsg := domain.NewSystemMessage(sqlQuery)
	if err := s.chats.AppendMessage(ctx, chat.ID, sqlMsg); err != nil {
		return nil, err
	}
	chat.Messages = append(chat.Messages, sqlMsg)

	result, err := s.executor.ExecuteForRecord(ctx, record, sqlQuery)
	if err != nil {
		var connErr *dbconn.ConnError
		if errors.As(err, &connErr) {
			return nil, &ServiceError{
				Type:      ErrTypeConnection,
				Operation: "execute_query",
				Message:   connErr.Message,
				Reason:    string(connErr.Reason),
				Cause:     err,
			}
		}
		return nil, NewExecutionError("execute_query", "Error executing SQL query", err)
	}

	resultMsg := domain.NewSystemMessage(
		fmt.Sprintf("Query executed successfully. Showing %d results.", len(result.Rows)))
	resultMsg.IsQueryResult = true
	resultMsg.QueryResults = result.Rows
	if err := s.chats.AppendMessage(ctx, chat.ID, resultMsg); err != nil {
		return nil, err
	}
	chat.Messages = append(chat.Messages, resultMsg)

	return &AddMessageResult{
		Chat:         chat,
		GeneratedSQL: sqlQuery,
		QueryResults: result.Rows,
	}, nil
}

func (s *ChatService) handleConversational(ctx context.Context, chat *domain.Chat, text string) (*AddMessageResult, error) {
	// The window is taken after the append, so the message being answered is
	// its last entry.
	reply := s.safeRespond(text, contextWindow(chat.Messages))

	aiMsg := domain.NewSystemMessage(reply.Text)
	aiMsg.IsAIResponse = true
	aiMsg.AIModel = reply.Model
	aiMsg.AICategory = string(reply.Category)
	if err := s.chats.AppendMessage(ctx, chat.ID, aiMsg); err != nil {
		return nil, err
	}
	chat.Messages = append(chat.Messages, aiMsg)

	return &AddMessageResult{
		Chat:       chat,
		AIResponse: reply.Text,
		AIModel:    reply.Model,
		AICategory: reply.Category,
	}, nil
}

// safeRespond guarantees the conversational path a reply even if the
// responder panics.
func (s *ChatService) safeRespond(text string, recentContext []assistant.ContextMessage) (reply assistant.Reply) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("conversational responder panicked", "cause", fmt.Sprint(r))
			reply = assistant.Reply{
				Text:  assistant.UltimateFallbackText,
				Model: "ultimate_fallback",
			}
		}
	}()
	return s.responder.Respond(text, recentContext)
}

// GetOrGenerateTitle returns the stored title; while it is still the
// placeholder it regenerates from the first user message. Generation
// failures leave the placeholder in place, so repeated calls are idempotent.
func (s *ChatService) GetOrGenerateTitle(ctx context.Context, userID, chatID bson.ObjectID) (string, error) {
	chat, err := s.loadOwnedChat(ctx, userID, chatID)
	if err != nil {
		return "", err
	}

	if chat.HasGeneratedTitle() {
		return chat.Title, nil
	}

	first := chat.FirstUserMessage()
	if first == nil {
		return "", NewValidationError("get_title", "no user message found to generate title")
	}

	title, err := s.titles.GenerateTitle(ctx, first.Text)
	if err != nil {
		s.logger.Warn("title generation failed, keeping placeholder",
			"chat_id", chat.ID.Hex(), "error", err.Error())
		return chat.Title, nil
	}

	if err := s.chats.UpdateTitle(ctx, chat.ID, title); err != nil {
		return "", err
	}
	return title, nil
}

// UpdateTitle lets the user overwrite the title explicitly.
func (s *ChatService) UpdateTitle(ctx context.Context, userID, chatID bson.ObjectID, title string) (*domain.Chat, error) {
	if title == "" {
		return nil, NewValidationError("update_title", "title is required")
	}

	chat, err := s.loadOwnedChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.chats.UpdateTitle(ctx, chat.ID, title); err != nil {
		return nil, err
	}
	chat.Title = title
	return chat, nil
}

func (s *ChatService) loadOwnedChat(ctx context.Context, userID, chatID bson.ObjectID) (*domain.Chat, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if errors.Is(err, chatrepo.ErrChatNotFound) {
		return nil, NewNotFoundError("load_chat", "Chat not found")
	}
	if err != nil {
		return nil, err
	}
	if chat.UserID != userID {
		return nil, NewNotFoundError("load_chat", "Chat not found")
	}
	return chat, nil
}

// generateAndStoreTitle is the swallow-on-failure title trigger.
func (s *ChatService) generateAndStoreTitle(ctx context.Context, chat *domain.Chat, text string) {
	title, err := s.titles.GenerateTitle(ctx, text)
	if err != nil {
		s.logger.Warn("title generation failed, keeping placeholder",
			"chat_id", chat.ID.Hex(), "error", err.Error())
		return
	}
	if err := s.chats.UpdateTitle(ctx, chat.ID, title); err != nil {
		s.logger.Warn("failed to persist generated title", "chat_id", chat.ID.Hex(), "error", err.Error())
		return
	}
	chat.Title = title
}

func contextWindow(messages []domain.Message) []assistant.ContextMessage {
	start := 0
	if len(messages) > contextWindowSize {
		start = len(messages) - contextWindowSize
	}
	window := make([]assistant.ContextMessage, 0, len(messages)-start)
	for _, m := range messages[start:] {
		window = append(window, assistant.ContextMessage{Text: m.Text, Sender: m.Sender})
	}
	return window
}
